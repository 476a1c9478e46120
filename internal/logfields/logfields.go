package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyDocument   = "document"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyLines      = "lines"
	KeyBytes      = "bytes"
	KeyFlag       = "flag"
	KeyLabel      = "label"
	KeyTarget     = "target"
	KeyPath       = "path"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Document(name string) slog.Attr  { return slog.String(KeyDocument, name) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Lines(n int) slog.Attr           { return slog.Int(KeyLines, n) }
func Bytes(n int) slog.Attr           { return slog.Int(KeyBytes, n) }
func Flag(name string) slog.Attr      { return slog.String(KeyFlag, name) }
func Label(l string) slog.Attr        { return slog.String(KeyLabel, l) }
func Target(t string) slog.Attr       { return slog.String(KeyTarget, t) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
