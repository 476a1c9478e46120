package config

import (
	"fmt"
	"strings"
)

// NormalizationResult captures adjustments made by Normalize.
type NormalizationResult struct{ Warnings []string }

// Normalize canonicalizes enumerated and bounded fields in place. Unknown
// values fall back to their defaults with a warning.
func Normalize(c *Config) *NormalizationResult {
	res := &NormalizationResult{}
	c.Dialect = normalizeEnum(res, "dialect", c.Dialect, DialectMarkdown, NormalizeDialect)
	c.Output = normalizeEnum(res, "output", c.Output, OutputHTML, NormalizeOutput)
	c.Log.Level = normalizeEnum(res, "log.level", c.Log.Level, LogLevelInfo, NormalizeLogLevel)
	c.Log.Format = normalizeEnum(res, "log.format", c.Log.Format, LogFormatText, NormalizeLogFormat)

	if c.TabStop < 1 {
		if c.TabStop != 0 {
			res.Warnings = append(res.Warnings, warnChanged("tabstop", c.TabStop, DefaultTabStop))
		}
		c.TabStop = DefaultTabStop
	}
	c.Flags = trimStringSlice(c.Flags)
	c.Base = strings.TrimSpace(c.Base)
	c.RefPrefix = strings.TrimSpace(c.RefPrefix)
	return res
}

func normalizeEnum[T ~string](res *NormalizationResult, field string, v, def T, lookup func(string) (T, bool)) T {
	if strings.TrimSpace(string(v)) == "" {
		return def
	}
	n, ok := lookup(string(v))
	if !ok {
		res.Warnings = append(res.Warnings, warnUnknown(field, string(v), string(def)))
		return def
	}
	if n != v {
		res.Warnings = append(res.Warnings, warnChanged(field, v, n))
	}
	return n
}

// trimStringSlice removes empty entries after trimming whitespace.
func trimStringSlice(in []string) []string {
	if len(in) == 0 {
		return in
	}
	out := make([]string, 0, len(in))
	for _, p := range in {
		if tp := strings.TrimSpace(p); tp != "" {
			out = append(out, tp)
		}
	}
	return out
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}
