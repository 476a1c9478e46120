package config

import "git.home.luguber.info/inful/mkd/internal/foundation/normalization"

// DefaultTabStop is the tab width when none is configured.
const DefaultTabStop = 4

// Dialect selects the input dialect.
type Dialect string

const (
	DialectMarkdown Dialect = "markdown"
	DialectGFM      Dialect = "gfm"
)

var dialectNormalizer = normalization.NewNormalizer(map[string]Dialect{
	"markdown": DialectMarkdown,
	"discount": DialectMarkdown,
	"gfm":      DialectGFM,
	"github":   DialectGFM,
}, DialectMarkdown)

func NormalizeDialect(raw string) (Dialect, bool) {
	return dialectNormalizer.Lookup(raw)
}

// Output is the render target written by the render command.
type Output string

const (
	OutputHTML Output = "html"
	OutputPage Output = "page"
	OutputTOC  Output = "toc"
	OutputCSS  Output = "css"
	OutputDump Output = "dump"
)

var outputNormalizer = normalization.NewNormalizer(map[string]Output{
	"html":  OutputHTML,
	"body":  OutputHTML,
	"page":  OutputPage,
	"xhtml": OutputPage,
	"toc":   OutputTOC,
	"css":   OutputCSS,
	"style": OutputCSS,
	"dump":  OutputDump,
	"tree":  OutputDump,
}, OutputHTML)

func NormalizeOutput(raw string) (Output, bool) {
	return outputNormalizer.Lookup(raw)
}

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer(map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

func NormalizeLogLevel(raw string) (LogLevel, bool) {
	return logLevelNormalizer.Lookup(raw)
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewNormalizer(map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

func NormalizeLogFormat(raw string) (LogFormat, bool) {
	return logFormatNormalizer.Lookup(raw)
}
