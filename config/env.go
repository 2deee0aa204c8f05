package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NUXTKIT_"

// environment holds the NUXTKIT_* overrides.
type environment struct {
	Locales        []string `env:"LOCALES" envSeparator:","`
	DefaultLocale  string   `env:"DEFAULT_LOCALE"`
	TranslationDir string   `env:"TRANSLATION_DIR"`
	Service        string   `env:"SERVICE"`
	Token          string   `env:"TOKEN"`
	Options        string   `env:"OPTIONS"`
	Concurrency    int      `env:"CONCURRENCY"`
	LogLevel       string   `env:"LOG_LEVEL"`
}

// loadDotEnv loads root/.env. Variables already set in the process
// environment are not overridden.
func loadDotEnv(root string) error {
	path := filepath.Join(root, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func parseEnv() (environment, error) {
	var e environment
	if err := env.ParseWithOptions(&e, env.Options{Prefix: EnvPrefix}); err != nil {
		return e, fmt.Errorf("parsing environment: %w", err)
	}
	return e, nil
}

func (e environment) apply(p *Project) {
	if len(e.Locales) > 0 {
		p.Locales = p.Locales[:0:0]
		for _, code := range e.Locales {
			if code = strings.TrimSpace(code); code != "" {
				p.Locales = append(p.Locales, Locale{Code: code})
			}
		}
	}
	if e.DefaultLocale != "" {
		p.DefaultLocale = e.DefaultLocale
	}
	if e.TranslationDir != "" {
		p.TranslationDir = e.TranslationDir
	}
	if e.Service != "" {
		p.Service = e.Service
	}
	if e.Token != "" {
		p.Token = e.Token
	}
	if e.Options != "" {
		p.Options = e.Options
	}
	if e.Concurrency > 0 {
		p.Concurrency = e.Concurrency
	}
	p.LogLevel = e.LogLevel
}
