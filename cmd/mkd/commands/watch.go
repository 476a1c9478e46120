package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/mkd"
	"git.home.luguber.info/inful/mkd/internal/config"
	"git.home.luguber.info/inful/mkd/internal/foundation/errors"
	"git.home.luguber.info/inful/mkd/internal/logfields"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Options
	File     string        `arg:"" type:"existingfile" help:"Markdown file to watch"`
	Out      string        `short:"o" required:"" type:"path" help:"Output file rewritten on every change"`
	Page     bool          `help:"Write a complete XHTML page instead of the body"`
	Debounce time.Duration `default:"200ms" help:"Quiet period before re-rendering"`
}

func (c *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return c.watch(ctx, g, root, nil)
}

// watch renders once and then again after every change until ctx ends.
// rendered, when set, is called after each render.
func (c *WatchCmd) watch(ctx context.Context, g *Global, root *CLI, rendered func(error)) error {
	s, err := newSession(g, root, c.Options)
	if err != nil {
		return err
	}
	target := config.OutputHTML
	if c.Page {
		target = config.OutputPage
	}
	abs, err := filepath.Abs(c.File)
	if err != nil {
		return errors.FileSystemError("resolve input").WithCause(err).WithContext("path", c.File).Build()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.FileSystemError("create file watcher").WithCause(err).Build()
	}
	defer func() { _ = w.Close() }()
	// Watch the directory; editors often replace the file on save.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return errors.FileSystemError("watch directory").WithCause(err).
			WithContext("path", filepath.Dir(abs)).
			Build()
	}

	render := func() {
		start := time.Now()
		err := c.renderOnce(s, abs, target)
		if err != nil {
			slog.Error("Render failed", logfields.Path(abs), logfields.Error(err))
		} else {
			slog.Info("Rendered", logfields.Path(c.Out), logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
		}
		if rendered != nil {
			rendered(err)
		}
	}
	render()
	slog.Info("Watching for changes", logfields.Path(abs))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return s.close()
		case event, ok := <-w.Events:
			if !ok {
				return s.close()
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			slog.Debug("Input change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(c.Debounce)
			} else {
				timer.Reset(c.Debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			render()
		case err, ok := <-w.Errors:
			if !ok {
				return s.close()
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (c *WatchCmd) renderOnce(s *session, path string, target config.Output) (err error) {
	in, err := os.Open(path)
	if err != nil {
		return errors.FileSystemError("open input").WithCause(err).WithContext("path", path).Build()
	}
	defer func() { _ = in.Close() }()
	w, closeOut, err := s.output(c.Out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); cerr != nil && err == nil {
			err = errors.FileSystemError("close output").WithCause(cerr).WithContext("path", c.Out).Build()
		}
	}()
	return s.one(path, in, func(d mkd.Document) error { return write(w, d, target) })
}
