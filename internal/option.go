package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	vaultPath  string
	outputPath string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithVaultPath overrides the configured vault path (CLI flag).
func WithVaultPath(path string) Option {
	return func(a *application) {
		a.vaultPath = path
	}
}

// WithOutputPath overrides the configured output path (CLI flag).
func WithOutputPath(path string) Option {
	return func(a *application) {
		a.outputPath = path
	}
}
