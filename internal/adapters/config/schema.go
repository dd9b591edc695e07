package config

// Pavefile represents the structure of the pave.yaml configuration file.
type Pavefile struct {
	Version string   `yaml:"version"`
	Script  string   `yaml:"script"`
	Sources string   `yaml:"sources"`
	Output  string   `yaml:"output"`
	Jobs    int      `yaml:"jobs"`
	Link    *LinkDTO `yaml:"link"`
}

// LinkDTO represents the link step in the configuration.
type LinkDTO struct {
	Cmd         []string          `yaml:"cmd"`
	Environment map[string]string `yaml:"environment"`
}

// Environment holds the PAVE_* overrides. Set values beat pave.yaml.
type Environment struct {
	Script    string `env:"PAVE_SCRIPT"`
	Sources   string `env:"PAVE_SOURCES"`
	Output    string `env:"PAVE_OUTPUT"`
	Jobs      int    `env:"PAVE_JOBS"`
	LogFormat string `env:"PAVE_LOG_FORMAT"`
}
