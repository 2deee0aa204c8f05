package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the YAML project file.
	FileName = ".nuxtkit.yaml"
	// TOMLFileName is the TOML project file, read when FileName is absent.
	TOMLFileName = "nuxtkit.toml"
)

// File is the project file schema shared by the YAML and TOML forms.
//
//	defaultLocale: en
//	translationDir: locales
//	locales:
//	  - code: en
//	    name: English
//	  - de
type File struct {
	DefaultLocale  string   `yaml:"defaultLocale,omitempty" toml:"defaultLocale,omitempty"`
	TranslationDir string   `yaml:"translationDir,omitempty" toml:"translationDir,omitempty"`
	Locales        []Locale `yaml:"locales" toml:"locales"`

	// Translate defaults.
	Service     string `yaml:"service,omitempty" toml:"service,omitempty"`
	Options     string `yaml:"options,omitempty" toml:"options,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty" toml:"concurrency,omitempty"`
}

// UnmarshalYAML accepts a bare code ("- de") or a mapping.
func (l *Locale) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*l = Locale{Code: node.Value}
		return nil
	}
	type plain Locale
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*l = Locale(p)
	return nil
}

// UnmarshalTOML accepts a bare code or an inline table.
func (l *Locale) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		*l = Locale{Code: v}
	case map[string]any:
		str := func(key string) string {
			s, _ := v[key].(string)
			return s
		}
		*l = Locale{Code: str("code"), Name: str("name"), File: str("file"), ISO: str("iso")}
	default:
		return fmt.Errorf("locale must be a string or a table, got %T", v)
	}
	return nil
}

// LoadFile reads the project file from root, preferring FileName over
// TOMLFileName. It returns a nil File when neither exists, together with
// the path that was read.
func LoadFile(root string) (*File, string, error) {
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var f File
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, path, fmt.Errorf("parsing %s: %w", path, err)
		}
		return &f, path, nil
	case !os.IsNotExist(err):
		return nil, path, fmt.Errorf("reading %s: %w", path, err)
	}

	path = filepath.Join(root, TOMLFileName)
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", nil
		}
		return nil, path, fmt.Errorf("reading %s: %w", path, err)
	}
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, path, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &f, path, nil
}

// WriteFile writes f as FileName into root. An existing file is only
// replaced when overwrite is set.
func WriteFile(root string, f *File, overwrite bool) (string, error) {
	path := filepath.Join(root, FileName)
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%s already exists", path)
		}
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return path, fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return path, fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
