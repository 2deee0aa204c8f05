// Package config resolves the settings of a Nuxt i18n project: the locale
// list, the default locale and the translation directory, read from
// .nuxtkit.yaml or nuxtkit.toml and overridden by NUXTKIT_* environment
// variables (optionally loaded from .env).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

var (
	// ErrNoConfig is returned when neither a project file nor NUXTKIT_LOCALES
	// is found.
	ErrNoConfig = errors.New("config: no project configuration found")
	// ErrNoLocales is returned when the configuration lists no locales.
	ErrNoLocales = errors.New("config: no locales configured")
)

const (
	// DefaultTranslationDir is used when no translation directory is set.
	DefaultTranslationDir = "locales"
	// DefaultLocale is used when no default locale is set.
	DefaultLocale = "en"
)

// Locale is one configured locale.
type Locale struct {
	// Code is the locale code used in file names ("de", "pt-br").
	Code string `yaml:"code" toml:"code"`
	// Name is the display name; empty means derive one from Code.
	Name string `yaml:"name,omitempty" toml:"name,omitempty"`
	// File is the lazy-load file name of nuxt i18n; informational only.
	File string `yaml:"file,omitempty" toml:"file,omitempty"`
	// ISO is the language tag used for display names when Code is not a
	// valid BCP 47 tag.
	ISO string `yaml:"iso,omitempty" toml:"iso,omitempty"`
}

// Tag returns the BCP 47 tag of the locale, preferring ISO over Code.
func (l Locale) Tag() (language.Tag, error) {
	s := l.ISO
	if s == "" {
		s = l.Code
	}
	return language.Parse(s)
}

// Project holds the resolved configuration.
type Project struct {
	// Root is the absolute project directory.
	Root string
	// TranslationDir is the absolute directory holding locale JSON files.
	TranslationDir string
	// DefaultLocale is the source locale of diff and translate.
	DefaultLocale string
	// Locales is the ordered locale list; Locales[0] is the reference of
	// sync, validate, stats and clean.
	Locales []Locale

	// Service, Token and Options are translate defaults.
	Service string
	Token   string
	Options string
	// Concurrency is the default number of parallel translation jobs.
	Concurrency int
	// LogLevel is the level requested through the environment, if any.
	LogLevel string

	// Source describes where the configuration came from, for logs.
	Source string
}

// Codes returns the locale codes in configuration order.
func (p *Project) Codes() []string {
	codes := make([]string, len(p.Locales))
	for i, l := range p.Locales {
		codes[i] = l.Code
	}
	return codes
}

// Reference returns the first configured locale.
func (p *Project) Reference() Locale {
	return p.Locales[0]
}

// Locale finds a configured locale by code.
func (p *Project) Locale(code string) (Locale, bool) {
	for _, l := range p.Locales {
		if l.Code == code {
			return l, true
		}
	}
	return Locale{}, false
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load resolves the configuration of the project at root. Values come from
// the project file, then from the environment (.env included), then from
// the built-in defaults.
func Load(root string) (*Project, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	if err := loadDotEnv(absRoot); err != nil {
		return nil, err
	}
	env, err := parseEnv()
	if err != nil {
		return nil, err
	}

	file, path, err := LoadFile(absRoot)
	if err != nil {
		return nil, err
	}
	if file == nil && len(env.Locales) == 0 {
		return nil, fmt.Errorf("%w in %s (create %s or set NUXTKIT_LOCALES)", ErrNoConfig, absRoot, FileName)
	}

	p := &Project{Root: absRoot, Source: "environment"}
	if file != nil {
		p.Source = path
		p.TranslationDir = file.TranslationDir
		p.DefaultLocale = file.DefaultLocale
		p.Locales = file.Locales
		p.Service = file.Service
		p.Options = file.Options
		p.Concurrency = file.Concurrency
	}
	env.apply(p)

	if p.TranslationDir == "" {
		p.TranslationDir = DefaultTranslationDir
	}
	if !filepath.IsAbs(p.TranslationDir) {
		p.TranslationDir = filepath.Join(absRoot, p.TranslationDir)
	}
	if p.DefaultLocale == "" {
		p.DefaultLocale = DefaultLocale
	}

	if err := validateLocales(p.Locales); err != nil {
		return nil, fmt.Errorf("%s: %w", p.Source, err)
	}
	return p, nil
}

func validateLocales(locales []Locale) error {
	if len(locales) == 0 {
		return ErrNoLocales
	}
	seen := make(map[string]bool, len(locales))
	for i, l := range locales {
		if strings.TrimSpace(l.Code) == "" {
			return fmt.Errorf("locale #%d has no code", i+1)
		}
		if seen[l.Code] {
			return fmt.Errorf("locale %q is listed twice", l.Code)
		}
		seen[l.Code] = true
	}
	return nil
}

// ---------------------------------------------------------------------------
// Detection
// ---------------------------------------------------------------------------

// Detect lists the locale codes that have a global file ({code}.json)
// directly inside dir, sorted. A missing directory yields nil.
func Detect(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var codes []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		code := strings.TrimSuffix(name, ".json")
		if _, err := language.Parse(code); err == nil {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes
}
