package config

import "github.com/ilyakaznacheev/cleanenv"

// portEnv is the short form PORT=5000, kept for deployments that only set a
// port. HTTP_ADDR takes precedence when both are present.
type portEnv struct {
	Port string `env:"PORT"`
}

// parseEnv overlays values from environment variables named in the env tags
// of Config. Unset variables leave the current value untouched.
func parseEnv(config *Config) error {
	var p portEnv
	if err := cleanenv.ReadEnv(&p); err != nil {
		return err
	}
	if p.Port != "" {
		config.HTTPAddr = ":" + p.Port
	}
	return cleanenv.ReadEnv(config)
}
