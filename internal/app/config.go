package app

import (
	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"github.com/xenking/korzinka-settlement/internal/source"
)

// Config holds the settlement run configuration, loadable from environment
// variables (SETTLE_ prefix), flags, or YAML config files.
type Config struct {
	Input         string `default:"-" usage:"Order export to settle (.json or .json.gz, - for stdin)"`
	Output        string `default:"-" usage:"Where to write settlement results (.json or .json.gz, - for stdout)"`
	Workers       int    `default:"4" usage:"Orders settled concurrently"`
	Indent        int    `default:"2" usage:"JSON indentation, 0 for compact output"`
	FailOnInvalid bool   `default:"false" usage:"Abort on the first invalid order instead of reporting it" flag:"fail-on-invalid"`
}

// LoadConfig loads configuration from environment variables, flags and YAML
// config files, then validates it.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SETTLE",
		Files:     []string{"settle.yaml", "/etc/settle/settle.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Input == "" {
		c.Input = source.Stdio
	}
	if c.Output == "" {
		c.Output = source.Stdio
	}
	if c.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Indent < 0 {
		return errors.Errorf("indent must not be negative, got %d", c.Indent)
	}
	return nil
}
