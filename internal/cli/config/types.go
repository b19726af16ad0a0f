// Package config provides configuration management for the routefold CLI.
//
// Values are layered from built-in defaults, a routefold.yaml file, a .env
// file, ROUTEFOLD_ environment variables and command-line flags, in that
// order of increasing precedence.
package config

// Config holds all CLI configuration options.
type Config struct {
	OutDir         string       `koanf:"out_dir"`
	Suffix         string       `koanf:"suffix"`
	Dialect        string       `koanf:"dialect"`
	Emit           string       `koanf:"emit"`
	ValidateSyntax bool         `koanf:"validate"`
	Workers        int          `koanf:"workers"`
	KeepGoing      bool         `koanf:"keep_going"`
	Verbose        bool         `koanf:"verbose"`
	OutputFormat   string       `koanf:"output"`
	Routes         RoutesConfig `koanf:"routes"`

	// ProjectRoot is the directory of the config file, or empty when no
	// file was found. Relative paths from the file are resolved against it.
	ProjectRoot string `koanf:"-"`
}

// RoutesConfig holds the route manifest conversion paths.
type RoutesConfig struct {
	In  string `koanf:"in"`
	Out string `koanf:"out"`
}

// Default configuration values.
const (
	DefaultSuffix    = "_edit"
	DefaultDialect   = "ts"
	DefaultEmit      = "ts"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultRoutesIn  = "Routes.toml"
	DefaultRoutesOut = "Routes.json"
)

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Suffix:       DefaultSuffix,
		Dialect:      DefaultDialect,
		Emit:         DefaultEmit,
		OutputFormat: DefaultOutput,
		Routes: RoutesConfig{
			In:  DefaultRoutesIn,
			Out: DefaultRoutesOut,
		},
	}
}
