package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/mkd"
	"git.home.luguber.info/inful/mkd/internal/config"
	"git.home.luguber.info/inful/mkd/internal/foundation/errors"
	"git.home.luguber.info/inful/mkd/internal/logfields"
	"git.home.luguber.info/inful/mkd/internal/metrics"
)

// Global carries the process streams so commands can be run in tests.
type Global struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (g *Global) stdin() io.Reader {
	if g == nil || g.Stdin == nil {
		return os.Stdin
	}
	return g.Stdin
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) stderr() io.Writer {
	if g == nil || g.Stderr == nil {
		return os.Stderr
	}
	return g.Stderr
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Render RenderCmd `cmd:"" default:"withargs" help:"Render Markdown files (or stdin) to HTML"`
	TOC    TOCCmd    `cmd:"" name:"toc" help:"Render the table of contents"`
	CSS    CSSCmd    `cmd:"" name:"css" help:"Print the extracted style blocks"`
	Page   PageCmd   `cmd:"" help:"Render a complete XHTML page"`
	Dump   DumpCmd   `cmd:"" help:"Print the parsed block tree"`
	XML    XMLCmd    `cmd:"" name:"xml" help:"Escape input for inclusion in XML"`
	Line   LineCmd   `cmd:"" help:"Render one line of inline markup"`
	Flags  FlagsCmd  `cmd:"" help:"Show the state of every flag"`
	Watch  WatchCmd  `cmd:"" help:"Re-render a file whenever it changes"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(g.stderr(), &slog.HandlerOptions{Level: level})))
	return nil
}

// configureLogging replaces the default logger with the configured one. The
// verbose flag always wins over the configured level.
func configureLogging(g *Global, lc config.LogConfig, verbose bool) {
	level := slog.LevelInfo
	switch lc.Level {
	case config.LogLevelDebug:
		level = slog.LevelDebug
	case config.LogLevelWarn:
		level = slog.LevelWarn
	case config.LogLevelError:
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(g.stderr(), opts)
	if lc.Format == config.LogFormatJSON {
		h = slog.NewJSONHandler(g.stderr(), opts)
	}
	slog.SetDefault(slog.New(h))
}

// Options holds the engine settings shared by commands that compile
// documents. Command line values override the configuration file.
type Options struct {
	Flags     []string `short:"f" help:"Flag names, e.g. toc,fencedcode,-smarty" sep:","`
	GFM       bool     `help:"Treat every line break as a hard break"`
	Base      string   `help:"URL prefixed to links and images starting with /"`
	RefPrefix string   `name:"ref-prefix" help:"Prefix of footnote ids"`
	TabStop   int      `name:"tabstop" help:"Tab width"`
}

// session is the resolved configuration of one command invocation.
type session struct {
	g     *Global
	cfg   *config.Config
	flags *mkd.Flags
	reg   *prometheus.Registry
	rec   mkd.Recorder
}

func newSession(g *Global, root *CLI, o Options) (*session, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	configureLogging(g, cfg.Log, root.Verbose)

	cfg.Flags = append(cfg.Flags, o.Flags...)
	if o.GFM {
		cfg.Dialect = config.DialectGFM
	}
	if o.Base != "" {
		cfg.Base = o.Base
	}
	if o.RefPrefix != "" {
		cfg.RefPrefix = o.RefPrefix
	}
	if o.TabStop > 0 {
		cfg.TabStop = o.TabStop
	}
	f, err := cfg.FlagSet()
	if err != nil {
		return nil, err
	}
	if cfg.HTML5 {
		mkd.WithHTML5Tags()
	}

	s := &session{g: g, cfg: cfg, flags: f}
	if cfg.MetricsFile != "" {
		s.reg = prometheus.NewRegistry()
		s.rec = metrics.NewPrometheusRecorder(s.reg)
	}
	slog.Debug("Session ready",
		slog.String("flags", f.String()),
		slog.String("dialect", string(cfg.Dialect)),
		slog.Int("tabstop", cfg.TabStop))
	return s, nil
}

// compile reads and compiles one document.
func (s *session) compile(label string, r io.Reader) (mkd.Document, error) {
	opts := []mkd.Option{mkd.WithTabStop(s.cfg.TabStop), mkd.WithLabel(label)}
	if s.rec != nil {
		opts = append(opts, mkd.WithRecorder(s.rec))
	}
	open := mkd.In
	if s.cfg.Dialect == config.DialectGFM {
		open = mkd.GFMIn
	}
	d, err := open(r, s.flags, opts...)
	if err != nil {
		return nil, err
	}
	d.SetBase(s.cfg.Base)
	if s.cfg.RefPrefix != "" {
		d.SetRefPrefix(s.cfg.RefPrefix)
	}
	if err := d.Compile(nil); err != nil {
		return nil, err
	}
	return d, nil
}

// each compiles every named file, or stdin when there are none, and hands
// the result to fn.
func (s *session) each(files []string, fn func(mkd.Document) error) error {
	if len(files) == 0 {
		return s.one("stdin", s.g.stdin(), fn)
	}
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			return errors.FileSystemError("open input").WithCause(err).
				WithContext("path", name).
				Build()
		}
		err = s.one(name, f, fn)
		_ = f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *session) one(label string, r io.Reader, fn func(mkd.Document) error) error {
	d, err := s.compile(label, r)
	if err != nil {
		return err
	}
	defer d.Cleanup()
	return fn(d)
}

// output opens the destination named by path, or stdout when it is empty.
func (s *session) output(path string) (io.Writer, func() error, error) {
	if path == "" {
		return s.g.stdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.FileSystemError("create output").WithCause(err).
			WithContext("path", path).
			Build()
	}
	return f, f.Close, nil
}

// close writes the metrics textfile when one is configured.
func (s *session) close() error {
	if s.reg == nil {
		return nil
	}
	if err := metrics.WriteTextfile(s.reg, s.cfg.MetricsFile); err != nil {
		return errors.FileSystemError("write metrics").WithCause(err).
			WithContext("path", s.cfg.MetricsFile).
			Build()
	}
	slog.Debug("Metrics written", logfields.Path(s.cfg.MetricsFile))
	return nil
}
