package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"checadas.com/ponches/core"
	"checadas.com/ponches/report"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Input   InputConfig  `yaml:"input"`
	Output  OutputConfig `yaml:"output"`
	IDOrder string       `yaml:"idOrder" validate:"oneof=numeric lexical"`
	Log     LogConfig    `yaml:"log"`
	Slack   SlackConfig  `yaml:"slack"`
	Web     WebConfig    `yaml:"web"`
}

// InputConfig selects the punch files. Explicit Files win over directory
// discovery; S3 wins over both when a bucket is set.
type InputConfig struct {
	Dir        string   `yaml:"dir"`
	Files      []string `yaml:"files"`
	Extensions []string `yaml:"extensions" validate:"dive,startswith=."`
	S3         S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

type OutputConfig struct {
	Path      string `yaml:"path"`
	Format    string `yaml:"format" validate:"oneof=csv xlsx"`
	Mode      string `yaml:"mode" validate:"oneof=basic detailed"`
	SheetName string `yaml:"sheetName" validate:"max=31"`
	WorkCode  int    `yaml:"workCode" validate:"min=0"`
	Reason    string `yaml:"reason"`
	Comment   string `yaml:"comment"`
	// S3Key uploads the report to Input.S3.Bucket under this key.
	S3Key string `yaml:"s3Key"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

type SlackConfig struct {
	Token          string `yaml:"token"`
	InfoChannelID  string `yaml:"infoChannel" validate:"required_with=Token"`
	ErrorChannelID string `yaml:"errorChannel" validate:"required_with=Token"`
}

type WebConfig struct {
	Address     string `yaml:"address" validate:"required"`
	JWTSecret   string `yaml:"jwtSecret" validate:"omitempty,base64"`
	MaxUploadMB int64  `yaml:"maxUploadMB" validate:"min=1,max=512"`
}

func Default() Config {
	opts := report.DefaultOptions()
	return Config{
		Input: InputConfig{
			Dir: ".",
		},
		Output: OutputConfig{
			Format:   string(opts.Format),
			Mode:     string(opts.Mode),
			WorkCode: opts.WorkCode,
			Reason:   opts.Reason,
		},
		IDOrder: string(core.NumericOrder),
		Log:     LogConfig{Level: "info"},
		Web: WebConfig{
			Address:     ":8090",
			MaxUploadMB: 50,
		},
	}
}

// Load reads a YAML file on top of the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := Merge(&cfg, data); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Merge decodes a YAML document over cfg. Keys missing from the document
// keep their current value.
func Merge(cfg *Config, data []byte) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unmarshal yaml: %w", err)
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	c.normalize()

	if err := validate.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, formatFieldError(fe))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if c.Output.S3Key != "" && c.Input.S3.Bucket == "" {
		return fmt.Errorf("%w: output.s3Key requires input.s3.bucket", ErrInvalid)
	}
	return nil
}

func (c *Config) normalize() {
	c.IDOrder = strings.ToLower(strings.TrimSpace(c.IDOrder))
	c.Output.Format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Output.Format), "."))
	c.Output.Mode = strings.ToLower(strings.TrimSpace(c.Output.Mode))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	for i, ext := range c.Input.Extensions {
		c.Input.Extensions[i] = strings.ToLower(strings.TrimSpace(ext))
	}
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_with":
		return fmt.Sprintf("field '%s' is required", fe.Namespace())
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of [%s], got '%v'", fe.Namespace(), fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("field '%s' must be at least %s", fe.Namespace(), fe.Param())
	case "max":
		return fmt.Sprintf("field '%s' must be at most %s", fe.Namespace(), fe.Param())
	case "startswith":
		return fmt.Sprintf("field '%s' must start with '%s'", fe.Namespace(), fe.Param())
	}
	return fmt.Sprintf("field '%s' failed validation for '%s'", fe.Namespace(), fe.Tag())
}

func (c Config) Order() core.IDOrder {
	order, err := core.ParseIDOrder(c.IDOrder)
	if err != nil {
		return core.NumericOrder
	}
	return order
}

func (c Config) ReportOptions() report.Options {
	format, err := report.ParseFormat(c.Output.Format)
	if err != nil {
		format = report.XLSX
	}
	mode, err := report.ParseMode(c.Output.Mode)
	if err != nil {
		mode = report.Basic
	}
	return report.Options{
		Format:    format,
		Mode:      mode,
		SheetName: c.Output.SheetName,
		WorkCode:  c.Output.WorkCode,
		Reason:    c.Output.Reason,
		Comment:   c.Output.Comment,
	}
}

// OutputPath is the configured report path, or ponches.<format> when none
// is set.
func (c Config) OutputPath() string {
	if c.Output.Path != "" {
		return c.Output.Path
	}
	return "ponches" + c.ReportOptions().Format.Extension()
}
