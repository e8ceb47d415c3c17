package config

import (
	"os"
	"path/filepath"
	"testing"

	"checadas.com/ponches/core"
	"checadas.com/ponches/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, core.NumericOrder, cfg.Order())
	assert.Equal(t, "ponches.xlsx", cfg.OutputPath())
	assert.Equal(t, report.DefaultOptions(), cfg.ReportOptions())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ponches.yaml")
	data := `
input:
  dir: /data/checadas
  extensions: [".DAT"]
output:
  format: CSV
  mode: detailed
  comment: importado
idOrder: lexical
slack:
  token: xoxb-1
  infoChannel: C1
  errorChannel: C2
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/data/checadas", cfg.Input.Dir)
	assert.Equal(t, []string{".dat"}, cfg.Input.Extensions)
	assert.Equal(t, core.LexicalOrder, cfg.Order())
	assert.Equal(t, "ponches.csv", cfg.OutputPath())

	opts := cfg.ReportOptions()
	assert.Equal(t, report.CSV, opts.Format)
	assert.Equal(t, report.Detailed, opts.Mode)
	assert.Equal(t, "importado", opts.Comment)
	// untouched keys keep their defaults
	assert.Equal(t, "Manual", opts.Reason)
	assert.Equal(t, 1, opts.WorkCode)
	assert.Equal(t, ":8090", cfg.Web.Address)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestMergeBadYAML(t *testing.T) {
	cfg := Default()
	assert.Error(t, Merge(&cfg, []byte("output: [")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "Unknown format", mutate: func(c *Config) { c.Output.Format = "pdf" }},
		{name: "Unknown mode", mutate: func(c *Config) { c.Output.Mode = "fancy" }},
		{name: "Unknown id order", mutate: func(c *Config) { c.IDOrder = "random" }},
		{name: "Unknown log level", mutate: func(c *Config) { c.Log.Level = "loud" }},
		{name: "Negative work code", mutate: func(c *Config) { c.Output.WorkCode = -1 }},
		{name: "Sheet name too long", mutate: func(c *Config) { c.Output.SheetName = "abcdefghijklmnopqrstuvwxyz0123456789" }},
		{name: "Extension without dot", mutate: func(c *Config) { c.Input.Extensions = []string{"txt"} }},
		{name: "Slack without channels", mutate: func(c *Config) { c.Slack.Token = "xoxb" }},
		{name: "S3 key without bucket", mutate: func(c *Config) { c.Output.S3Key = "out/ponches.xlsx" }},
		{name: "Secret not base64", mutate: func(c *Config) { c.Web.JWTSecret = "not base64!" }},
		{name: "Upload limit zero", mutate: func(c *Config) { c.Web.MaxUploadMB = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestValidateNormalizes(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = " .XLSX "
	cfg.IDOrder = "Numeric"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "xlsx", cfg.Output.Format)
	assert.Equal(t, "numeric", cfg.IDOrder)
}
