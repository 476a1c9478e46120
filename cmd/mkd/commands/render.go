package commands

import (
	"io"

	"git.home.luguber.info/inful/mkd"
	"git.home.luguber.info/inful/mkd/internal/config"
	"git.home.luguber.info/inful/mkd/internal/foundation/errors"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Options
	Files   []string `arg:"" optional:"" type:"existingfile" help:"Markdown files (stdin when none are given)"`
	Out     string   `short:"o" help:"Write to this file instead of stdout" type:"path"`
	Target  string   `short:"t" help:"Render target (html|page|toc|css|dump). Overrides output in the configuration."`
	WithTOC bool     `short:"T" name:"with-toc" help:"Write the table of contents before the body"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	s, err := newSession(g, root, r.Options)
	if err != nil {
		return err
	}
	target := s.cfg.Output
	if r.Target != "" {
		t, ok := config.NormalizeOutput(r.Target)
		if !ok {
			return errors.OptionError("unknown render target").WithContext("target", r.Target).Build()
		}
		target = t
	}
	if err := run(s, r.Files, r.Out, func(w io.Writer, d mkd.Document) error {
		if r.WithTOC {
			if _, err := d.WriteTOC(w); err != nil {
				return err
			}
		}
		return write(w, d, target)
	}); err != nil {
		return err
	}
	return s.close()
}

// TOCCmd implements the 'toc' command.
type TOCCmd struct {
	Options
	Files []string `arg:"" optional:"" type:"existingfile" help:"Markdown files (stdin when none are given)"`
	Out   string   `short:"o" help:"Write to this file instead of stdout" type:"path"`
}

func (c *TOCCmd) Run(g *Global, root *CLI) error {
	return renderTarget(g, root, c.Options, c.Files, c.Out, config.OutputTOC)
}

// CSSCmd implements the 'css' command.
type CSSCmd struct {
	Options
	Files []string `arg:"" optional:"" type:"existingfile" help:"Markdown files (stdin when none are given)"`
	Out   string   `short:"o" help:"Write to this file instead of stdout" type:"path"`
}

func (c *CSSCmd) Run(g *Global, root *CLI) error {
	return renderTarget(g, root, c.Options, c.Files, c.Out, config.OutputCSS)
}

// PageCmd implements the 'page' command.
type PageCmd struct {
	Options
	Files []string `arg:"" optional:"" type:"existingfile" help:"Markdown files (stdin when none are given)"`
	Out   string   `short:"o" help:"Write to this file instead of stdout" type:"path"`
}

func (c *PageCmd) Run(g *Global, root *CLI) error {
	return renderTarget(g, root, c.Options, c.Files, c.Out, config.OutputPage)
}

// DumpCmd implements the 'dump' command.
type DumpCmd struct {
	Options
	Files []string `arg:"" optional:"" type:"existingfile" help:"Markdown files (stdin when none are given)"`
	Out   string   `short:"o" help:"Write to this file instead of stdout" type:"path"`
}

func (c *DumpCmd) Run(g *Global, root *CLI) error {
	return renderTarget(g, root, c.Options, c.Files, c.Out, config.OutputDump)
}

func renderTarget(g *Global, root *CLI, o Options, files []string, out string, target config.Output) error {
	s, err := newSession(g, root, o)
	if err != nil {
		return err
	}
	if err := run(s, files, out, func(w io.Writer, d mkd.Document) error {
		return write(w, d, target)
	}); err != nil {
		return err
	}
	return s.close()
}

// run compiles every input and hands it to fn together with the output.
func run(s *session, files []string, out string, fn func(io.Writer, mkd.Document) error) (err error) {
	w, closeOut, err := s.output(out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); cerr != nil && err == nil {
			err = errors.FileSystemError("close output").WithCause(cerr).
				WithContext("path", out).
				Build()
		}
	}()
	return s.each(files, func(d mkd.Document) error { return fn(w, d) })
}

func write(w io.Writer, d mkd.Document, target config.Output) error {
	var err error
	switch target {
	case config.OutputPage:
		_, err = d.WriteXHTMLPage(w)
	case config.OutputTOC:
		_, err = d.WriteTOC(w)
	case config.OutputCSS:
		_, err = d.WriteCSS(w)
	case config.OutputDump:
		_, err = d.Dump(w, d.Label())
	default:
		_, err = d.WriteHTML(w)
	}
	return err
}
