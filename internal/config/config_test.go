package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mkd/internal/flags"
	"git.home.luguber.info/inful/mkd/internal/foundation/errors"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(FlagsEnv, "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv(FlagsEnv, "")
	t.Setenv("MKD_TEST_BASE", "https://example.com")

	p := writeFile(t, dir, "mkd.yaml", `
flags: [toc, fencedcode]
dialect: GitHub
tabstop: 8
output: xhtml
base: ${MKD_TEST_BASE}
ref_prefix: note
html5: true
metrics_file: /tmp/mkd.prom
log:
  level: DEBUG
  format: json
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, []string{"toc", "fencedcode"}, cfg.Flags)
	require.Equal(t, DialectGFM, cfg.Dialect)
	require.Equal(t, 8, cfg.TabStop)
	require.Equal(t, OutputPage, cfg.Output)
	require.Equal(t, "https://example.com", cfg.Base)
	require.Equal(t, "note", cfg.RefPrefix)
	require.True(t, cfg.HTML5)
	require.Equal(t, "/tmp/mkd.prom", cfg.MetricsFile)
	require.Equal(t, LogConfig{Level: LogLevelDebug, Format: LogFormatJSON}, cfg.Log)

	f, err := cfg.FlagSet()
	require.NoError(t, err)
	require.True(t, f.Equal(flags.Of(flags.TOC, flags.FencedCode)))
}

func TestLoad_EnvFlagsAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv(FlagsEnv, "")
	require.NoError(t, os.Unsetenv(FlagsEnv))
	writeFile(t, dir, ".env", "MKD_FLAGS=nopants,latex\n")

	p := writeFile(t, dir, "mkd.yaml", "flags: [toc]\n")
	cfg, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, []string{"toc", "nopants,latex"}, cfg.Flags)

	f, err := cfg.FlagSet()
	require.NoError(t, err)
	require.True(t, f.Equal(flags.Of(flags.TOC, flags.NoPants, flags.Latex)))
}

func TestLoad_ProcessEnvWinsOverDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv(FlagsEnv, "strict")
	writeFile(t, dir, ".env", "MKD_FLAGS=latex\n")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, []string{"strict"}, cfg.Flags)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv(FlagsEnv, "")

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))

	p := writeFile(t, dir, "bad.yaml", "flags: {\n")
	_, err = Load(p)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestFlagSet_UnknownName(t *testing.T) {
	cfg := &Config{Flags: []string{"toc", "bogus"}}
	f, err := cfg.FlagSet()
	require.True(t, errors.HasCategory(err, errors.CategoryOption))
	require.True(t, f.IsSet(flags.TOC))
}

func TestNormalize(t *testing.T) {
	cfg := &Config{
		Flags:   []string{" toc ", ""},
		Dialect: "klingon",
		TabStop: -2,
		Output:  "TOC",
		Log:     LogConfig{Level: "warning"},
	}
	res := Normalize(cfg)
	require.Equal(t, []string{"toc"}, cfg.Flags)
	require.Equal(t, DialectMarkdown, cfg.Dialect)
	require.Equal(t, DefaultTabStop, cfg.TabStop)
	require.Equal(t, OutputTOC, cfg.Output)
	require.Equal(t, LogLevelWarn, cfg.Log.Level)
	require.Equal(t, LogFormatText, cfg.Log.Format)
	require.Len(t, res.Warnings, 4)
	require.Contains(t, res.Warnings[0], "unknown dialect 'klingon'")
}
