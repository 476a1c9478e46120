package commands

import (
	"bytes"
	"io"
	"os"
	"strings"

	"git.home.luguber.info/inful/mkd"
	"git.home.luguber.info/inful/mkd/internal/config"
	"git.home.luguber.info/inful/mkd/internal/foundation/errors"
)

// XMLCmd implements the 'xml' command.
type XMLCmd struct {
	Files []string `arg:"" optional:"" type:"existingfile" help:"Files to escape (stdin when none are given)"`
}

func (c *XMLCmd) Run(g *Global, _ *CLI) error {
	readers := []io.Reader{g.stdin()}
	if len(c.Files) > 0 {
		readers = readers[:0]
		for _, name := range c.Files {
			f, err := os.Open(name)
			if err != nil {
				return errors.FileSystemError("open input").WithCause(err).
					WithContext("path", name).
					Build()
			}
			defer f.Close()
			readers = append(readers, f)
		}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.MultiReader(readers...)); err != nil {
		return errors.WrapError(err, errors.CategoryInput, "read input").Build()
	}
	_, err := mkd.GenerateXML(g.stdout(), buf.Bytes())
	return err
}

// LineCmd implements the 'line' command.
type LineCmd struct {
	Flags []string `short:"f" help:"Flag names" sep:","`
	Text  []string `arg:"" help:"Text to render; words are joined with spaces"`
}

func (c *LineCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	configureLogging(g, cfg.Log, root.Verbose)
	cfg.Flags = append(cfg.Flags, c.Flags...)
	f, err := cfg.FlagSet()
	if err != nil {
		return err
	}
	out := mkd.Line([]byte(strings.Join(c.Text, " ")), f)
	_, err = g.stdout().Write(append(out, '\n'))
	return err
}

// FlagsCmd implements the 'flags' command.
type FlagsCmd struct {
	Names []string `arg:"" optional:"" help:"Flag names to apply before listing"`
	HTML  bool     `name:"html" help:"Write the list as an html table"`
}

func (c *FlagsCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	cfg.Flags = append(cfg.Flags, c.Names...)
	f, err := cfg.FlagSet()
	if err != nil {
		return err
	}
	if err := f.Describe(g.stdout(), c.HTML); err != nil {
		return errors.WrapError(err, errors.CategoryRender, "write flags").Build()
	}
	return nil
}
