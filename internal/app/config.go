package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SpecPath   string   // benchmark specification file (.hcl or .json)
	OutputPath string   // result file, empty means stdout
	Models     []string // model-name filter, empty means all
	Programs   []string // program-name filter, empty means all

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.SpecPath == "" {
		return nil, errors.New("SpecPath is a required configuration field and cannot be empty")
	}

	// Future validations for other fields can be added here.

	return &cfg, nil
}
