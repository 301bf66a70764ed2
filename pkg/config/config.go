// Package config loads the project configuration file describing the source
// and target connections plus default diff, planning, and execution options.
package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/schemaport/schemaport/pkg/schema"
	"github.com/schemaport/schemaport/pkg/schemadiff"
	"gopkg.in/yaml.v3"
)

type (
	// Connection identifies one database endpoint.
	Connection struct {
		// Name is a human-readable label used in reports. Defaults to the
		// database name resolved from the connection.
		Name string `yaml:"name,omitempty"`

		// DSN is the postgres connection string. Environment variable
		// references ($VAR or ${VAR}) are expanded at load time so secrets
		// can stay out of the file.
		DSN string `yaml:"dsn"`
	}

	// Diff holds the default comparison options.
	Diff struct {
		// Mode is "strict" or "lenient". Defaults to strict.
		Mode string `yaml:"mode,omitempty"`

		// ExcludeSchemas lists schemas to skip on both sides.
		ExcludeSchemas []string `yaml:"exclude_schemas,omitempty"`

		// IncludeTypes is an object-type allow-list; empty means all types.
		IncludeTypes []string `yaml:"include_types,omitempty"`

		// IncludeSystemSchemas disables the default system-schema exclusion.
		IncludeSystemSchemas bool `yaml:"include_system_schemas,omitempty"`
	}

	// Plan holds the default script generation options.
	Plan struct {
		IncludeRollback   bool `yaml:"include_rollback"`
		IncludeValidation bool `yaml:"include_validation"`
	}

	// Execution holds the default execution policy.
	Execution struct {
		StopOnError bool `yaml:"stop_on_error"`
	}

	// Config is the project configuration for schema migration planning.
	Config struct {
		Source    Connection `yaml:"source"`
		Target    Connection `yaml:"target"`
		Diff      Diff       `yaml:"diff"`
		Plan      Plan       `yaml:"plan"`
		Execution Execution  `yaml:"execution"`
	}
)

// LoadConfig parses a project configuration from the provided io.Reader.
// DSN values have environment variable references expanded.
//
// Example:
//
//	yamlData := `
//	source:
//	  dsn: ${SOURCE_DSN}
//	target:
//	  dsn: ${TARGET_DSN}
//	diff:
//	  mode: lenient
//	`
//
//	cfg, err := config.LoadConfig(strings.NewReader(yamlData))
//	if err != nil {
//	    return err
//	}
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	cfg.Source.DSN = os.ExpandEnv(cfg.Source.DSN)
	cfg.Target.DSN = os.ExpandEnv(cfg.Target.DSN)

	if cfg.Diff.Mode == "" {
		cfg.Diff.Mode = string(schemadiff.ModeStrict)
	}

	return &cfg, cfg.validate()
}

// LoadConfigFile loads a project configuration from the specified file path.
// This is a convenience function that opens the file and calls LoadConfig.
//
// Example:
//
//	cfg, err := config.LoadConfigFile("schemaport.yaml")
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}

// DiffOptions converts the configured defaults into differencer options.
func (c *Config) DiffOptions() schemadiff.Options {
	opts := schemadiff.Options{
		Mode:                 schemadiff.Mode(c.Diff.Mode),
		ExcludeSchemas:       c.Diff.ExcludeSchemas,
		IncludeSystemSchemas: c.Diff.IncludeSystemSchemas,
	}
	for _, t := range c.Diff.IncludeTypes {
		opts.IncludeTypes = append(opts.IncludeTypes, schema.ObjectType(t))
	}
	return opts
}

func (c *Config) validate() error {
	if c.Source.DSN == "" {
		return errors.New("source.dsn is required")
	}
	if c.Target.DSN == "" {
		return errors.New("target.dsn is required")
	}
	mode := schemadiff.Mode(c.Diff.Mode)
	if mode != schemadiff.ModeStrict && mode != schemadiff.ModeLenient {
		return errors.Errorf("diff.mode must be %q or %q", schemadiff.ModeStrict, schemadiff.ModeLenient)
	}
	return nil
}
