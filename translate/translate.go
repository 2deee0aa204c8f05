// Package translate fills locale trees through machine-translation services.
//
// Every service is a driver implementing Translator; drivers are looked up by
// name in a Registry that is built once at start-up and never changes. The
// orchestrator in run.go walks a reference tree, sends the keys a target
// locale is missing to one driver and writes each target file once.
package translate

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Translator translates one text between two language codes.
type Translator interface {
	Translate(ctx context.Context, text, from, to string, opts Options) (string, error)
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Options holds free-form driver settings such as "baseUrl", "timeout"
// (milliseconds), "proxy", "region" or "openaiModel".
type Options map[string]any

// ParseOptions parses "key:value" pairs separated by commas. Values are
// turned into booleans ("true", "false") or numbers when they look like
// one; everything else stays a string. Only the first colon separates key
// and value, so URLs survive: "baseUrl:http://localhost:5000".
func ParseOptions(s string) Options {
	opts := make(Options)
	for _, pair := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(pair, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.ToLower(value) {
		case "true":
			opts[key] = true
		case "false":
			opts[key] = false
		default:
			if f, err := strconv.ParseFloat(value, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
				opts[key] = f
			} else {
				opts[key] = value
			}
		}
	}
	return opts
}

// String returns the option as a string, or def when it is absent or empty.
func (o Options) String(key, def string) string {
	switch v := o[key].(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return def
}

// Number returns the option as a float, or def.
func (o Options) Number(key string, def float64) float64 {
	switch v := o[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// Bool returns the option as a boolean.
func (o Options) Bool(key string) bool {
	switch v := o[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

// Duration reads a millisecond count.
func (o Options) Duration(key string, def time.Duration) time.Duration {
	ms := o.Number(key, -1)
	if ms <= 0 {
		return def
	}
	return time.Duration(ms * float64(time.Millisecond))
}

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

// Descriptor describes one translation service.
type Descriptor struct {
	// Name is the lower-case identifier used on the command line.
	Name string
	// Title is the display name.
	Title string
	// Credential describes the credential format; empty when the service
	// needs none.
	Credential string
	// New builds a driver. It is called once per translation.
	New func(credential string, opts Options) (Translator, error)
}

// Registry is a read-only name → Descriptor table.
type Registry struct {
	byName map[string]Descriptor
}

// NewRegistry builds a registry. Later descriptors replace earlier ones
// with the same name.
func NewRegistry(descs ...Descriptor) *Registry {
	r := &Registry{byName: make(map[string]Descriptor, len(descs))}
	for _, d := range descs {
		r.byName[strings.ToLower(d.Name)] = d
	}
	return r
}

// Lookup finds a service by name, ignoring case.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// Names returns the service names in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Descriptors returns every descriptor ordered by name.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.byName))
	for _, n := range r.Names() {
		out = append(out, r.byName[n])
	}
	return out
}

// New builds the driver for service.
func (r *Registry) New(service, credential string, opts Options) (Translator, error) {
	d, ok := r.Lookup(service)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedService, service)
	}
	return d.New(credential, opts)
}

// Services is the registry of built-in drivers.
var Services = NewRegistry(
	Descriptor{Name: "google", Title: "Google Cloud Translation", Credential: "API key", New: newGoogle},
	Descriptor{Name: "deepl", Title: "DeepL", Credential: "auth key", New: newDeepL},
	Descriptor{Name: "yandex", Title: "Yandex Translate", Credential: "API key", New: newYandex},
	Descriptor{Name: "openai", Title: "OpenAI", Credential: "API key", New: newOpenAI},
	Descriptor{Name: "azure", Title: "Azure Translator", Credential: "subscription key", New: newAzure},
	Descriptor{Name: "ibm", Title: "IBM Watson Language Translator", Credential: "API key", New: newIBM},
	Descriptor{Name: "baidu", Title: "Baidu Translate", Credential: "appId:key", New: newBaidu},
	Descriptor{Name: "googlefree", Title: "Google Translate (web)", New: newGoogleFree},
	Descriptor{Name: "libretranslate", Title: "LibreTranslate", Credential: "API key (optional)", New: newLibreTranslate},
	Descriptor{Name: "mymemory", Title: "MyMemory", Credential: "key (optional)", New: newMyMemory},
	Descriptor{Name: "lingvatranslate", Title: "Lingva Translate", New: newLingva},
	Descriptor{Name: "papago", Title: "Naver Papago", Credential: "clientId:clientSecret", New: newPapago},
	Descriptor{Name: "tencent", Title: "Tencent Machine Translation", Credential: "secretId:secretKey", New: newTencent},
	Descriptor{Name: "systran", Title: "SYSTRAN", Credential: "API key", New: newSystran},
	Descriptor{Name: "yandexcloud", Title: "Yandex Cloud Translate", Credential: "API key", New: newYandexCloud},
	Descriptor{Name: "modernmt", Title: "ModernMT", Credential: "API key", New: newModernMT},
	Descriptor{Name: "lilt", Title: "Lilt", Credential: "API key", New: newLilt},
	Descriptor{Name: "unbabel", Title: "Unbabel", Credential: "API key", New: newUnbabel},
	Descriptor{Name: "reverso", Title: "Reverso", New: newReverso},
)

// New builds a built-in driver by service name.
func New(service, credential string, opts Options) (Translator, error) {
	return Services.New(service, credential, opts)
}

// ---------------------------------------------------------------------------
// Language codes
// ---------------------------------------------------------------------------

var deeplCodes = map[string]string{
	"en":    "EN",
	"en-us": "EN-US",
	"en-gb": "EN-GB",
	"de":    "DE",
	"fr":    "FR",
	"es":    "ES",
	"it":    "IT",
	"nl":    "NL",
	"pl":    "PL",
	"pt":    "PT-PT",
	"pt-br": "PT-BR",
	"ru":    "RU",
	"ja":    "JA",
	"zh":    "ZH",
}

// MapLanguageCode converts a locale code to the form service expects.
// Only DeepL needs conversion; other services get the code unchanged.
func MapLanguageCode(service, code string) string {
	switch strings.ToLower(service) {
	case "deepl":
		if mapped, ok := deeplCodes[strings.ToLower(code)]; ok {
			return mapped
		}
		return strings.ToUpper(code)
	default:
		return code
	}
}

// TranslateText maps both language codes, builds the driver for service and
// translates text.
func TranslateText(ctx context.Context, text, from, to, service, credential string, opts Options) (string, error) {
	t, err := New(service, credential, opts)
	if err != nil {
		return "", err
	}
	return t.Translate(ctx, text, MapLanguageCode(service, from), MapLanguageCode(service, to), opts)
}
