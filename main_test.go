package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fatih/color"

	"github.com/minios-linux/nuxtkit/config"
	"github.com/minios-linux/nuxtkit/localedir"
	"github.com/minios-linux/nuxtkit/lockfile"
	"github.com/minios-linux/nuxtkit/translate"
	"github.com/minios-linux/nuxtkit/tree"
)

// newProject writes files below a temporary project root and returns it.
func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

const projectFile = `defaultLocale: en
locales:
  - code: en
    name: English
  - de
`

// execute runs the CLI with args against root, quietly.
func execute(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"LOCALES", "DEFAULT_LOCALE", "TRANSLATION_DIR", "SERVICE", "TOKEN", "OPTIONS", "CONCURRENCY", "LOG_LEVEL"} {
		t.Setenv(config.EnvPrefix+k, "")
		os.Unsetenv(config.EnvPrefix + k)
	}

	cwd, translationDir, logLevel = ".", "", levelFlag{name: "info"}
	t.Cleanup(func() { setLogger(newLogger(os.Stderr, slog.LevelInfo, false)) })

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--cwd", root, "--logLevel", "silent"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// useDataHome points the credential store at an empty directory.
func useDataHome(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())
}

func readTree(t *testing.T, path string) map[string]string {
	t.Helper()
	n, err := tree.Load(path)
	if err != nil {
		t.Fatalf("tree.Load(%s): %v", path, err)
	}
	return tree.Flatten(n)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func TestLevelFlag(t *testing.T) {
	var l levelFlag
	tests := []struct {
		in     string
		want   slog.Level
		silent bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"silent", slog.LevelError + 4, true},
	}
	for _, tt := range tests {
		if err := l.Set(tt.in); err != nil {
			t.Fatalf("Set(%q) error: %v", tt.in, err)
		}
		if got := l.Level(); got != tt.want {
			t.Fatalf("Set(%q).Level() = %v, want %v", tt.in, got, tt.want)
		}
		if got := l.Silent(); got != tt.silent {
			t.Fatalf("Set(%q).Silent() = %v, want %v", tt.in, got, tt.silent)
		}
	}
	if err := l.Set("verbose"); err == nil {
		t.Fatal("Set(verbose) should fail")
	}
	if l.Type() != "level" {
		t.Fatalf("Type() = %q, want level", l.Type())
	}
}

func TestCoverageBar(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		percent float64
		width   int
		want    string
	}{
		{-10, 4, "░░░░   0.00%"},
		{50, 4, "██░░  50.00%"},
		{120, 4, "████ 100.00%"},
	}
	for _, tt := range tests {
		if got := coverageBar(tt.percent, tt.width); got != tt.want {
			t.Fatalf("coverageBar(%v, %d) = %q, want %q", tt.percent, tt.width, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		locale config.Locale
		want   string
	}{
		{config.Locale{Code: "de", Name: "German"}, "German"},
		{config.Locale{Code: "de"}, "Deutsch"},
		{config.Locale{Code: "custom", ISO: "fr"}, "français"},
		{config.Locale{Code: "!!"}, "!!"},
	}
	for _, tt := range tests {
		if got := displayName(tt.locale); got != tt.want {
			t.Fatalf("displayName(%+v) = %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestBuildProjectFile(t *testing.T) {
	f := buildProjectFile("locales", "", nil, []string{"de", "en", "fr"})
	if f.DefaultLocale != "en" {
		t.Fatalf("DefaultLocale = %q, want en", f.DefaultLocale)
	}
	var codes []string
	for _, l := range f.Locales {
		codes = append(codes, l.Code)
	}
	if !reflect.DeepEqual(codes, []string{"en", "de", "fr"}) {
		t.Fatalf("locales = %v, want [en de fr]", codes)
	}
	if f.Locales[1].Name != "Deutsch" {
		t.Fatalf("de name = %q, want Deutsch", f.Locales[1].Name)
	}

	f = buildProjectFile("i18n", "", []string{"uk", "pl"}, []string{"en"})
	if f.DefaultLocale != "uk" || len(f.Locales) != 2 || f.TranslationDir != "i18n" {
		t.Fatalf("explicit locales = %+v", f)
	}
}

func TestCompileKeep(t *testing.T) {
	keep, err := compileKeep([]string{"errors.**", "meta.*"})
	if err != nil {
		t.Fatalf("compileKeep: %v", err)
	}
	tests := []struct {
		key  string
		want bool
	}{
		{"errors.404", true},
		{"errors.http.500", true},
		{"meta.title", true},
		{"meta.og.title", false},
		{"nav.home", false},
	}
	for _, tt := range tests {
		if got := keep(tt.key); got != tt.want {
			t.Fatalf("keep(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}

	if keep, err := compileKeep(nil); err != nil || keep != nil {
		t.Fatalf("compileKeep(nil) = %v, %v; want nil matcher", keep != nil, err)
	}
	if _, err := compileKeep([]string{"[unclosed"}); err == nil {
		t.Fatal("compileKeep of an invalid pattern should fail")
	}
}

func TestMergeOptions(t *testing.T) {
	got := mergeOptions("model:a,timeout:1000", "", "model:b")
	if got.String("model", "") != "b" {
		t.Fatalf("model = %v, want b", got["model"])
	}
	if got.Number("timeout", 0) != 1000 {
		t.Fatalf("timeout = %v, want 1000", got["timeout"])
	}
}

func TestLocalPath(t *testing.T) {
	dir := filepath.FromSlash("/p/locales")
	got, err := localPath(dir, "pages/home/de.json")
	if err != nil || got != filepath.Join(dir, "pages", "home", "de.json") {
		t.Fatalf("localPath(pages/home/de.json) = %q, %v", got, err)
	}
	for _, bad := range []string{"../secrets.json", "/etc/passwd"} {
		if _, err := localPath(dir, bad); err == nil {
			t.Fatalf("localPath(%q) should fail", bad)
		}
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(filePath, []byte("ok"), 0644); err != nil {
		t.Fatalf("os.WriteFile() error: %v", err)
	}

	if !fileExists(filePath) {
		t.Fatalf("fileExists(file) = false, want true")
	}
	if fileExists(dir) {
		t.Fatalf("fileExists(directory) = true, want false")
	}
	if fileExists(filepath.Join(dir, "missing.txt")) {
		t.Fatalf("fileExists(missing) = true, want false")
	}
}

func TestPromptService(t *testing.T) {
	got, err := promptService(bufio.NewReader(strings.NewReader("deepl\n")))
	if err != nil || got != "deepl" {
		t.Fatalf("promptService(deepl) = %q, %v", got, err)
	}
	if _, err := promptService(bufio.NewReader(strings.NewReader("999\n"))); err == nil {
		t.Fatal("promptService(999) should fail")
	}
	if _, err := promptService(bufio.NewReader(strings.NewReader(""))); err == nil {
		t.Fatal("promptService without input should fail")
	}
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func TestExtractCommand(t *testing.T) {
	root := newProject(t, map[string]string{
		".nuxtkit.yaml":               projectFile,
		"layouts/default.vue":         `<template>{{ $t('nav.home') }}</template>`,
		"pages/index.vue":             `<template><Hero />{{ $t('welcome.title') }}</template>`,
		"components/Hero.vue":         `<template>{{ $tc('hero.apples', 2) }}</template>`,
		"locales/de.json":             `{"nav": {"home": "Startseite"}, "legacy": "Alt"}`,
		"locales/pages/index/de.json": `{"welcome": {"title": "Willkommen"}}`,
	})

	if _, err := execute(t, root, "extract"); err != nil {
		t.Fatalf("extract: %v", err)
	}

	dir := filepath.Join(root, "locales")
	de := readTree(t, filepath.Join(dir, "de.json"))
	want := map[string]string{"nav.home": "Startseite", "legacy": "Alt", "hero.apples": ""}
	if !reflect.DeepEqual(de, want) {
		t.Fatalf("de.json = %v, want %v", de, want)
	}
	page := readTree(t, filepath.Join(dir, "pages", "index", "en.json"))
	wantPage := map[string]string{"welcome.title": "", "hero.apples": ""}
	if !reflect.DeepEqual(page, wantPage) {
		t.Fatalf("pages/index/en.json = %v, want %v", page, wantPage)
	}
	dePage := readTree(t, filepath.Join(dir, "pages", "index", "de.json"))
	if dePage["welcome.title"] != "Willkommen" {
		t.Fatalf("pages/index/de.json lost its value: %v", dePage)
	}
}

func TestSyncAndValidateCommands(t *testing.T) {
	root := newProject(t, map[string]string{
		".nuxtkit.yaml":   projectFile,
		"locales/en.json": `{"a": "A", "b": {"c": "C"}}`,
		"locales/de.json": `{"a": "Ä", "x": "extra"}`,
	})

	_, err := execute(t, root, "validate")
	if !errors.Is(err, errValidationFailed) {
		t.Fatalf("validate before sync = %v, want errValidationFailed", err)
	}

	if _, err := execute(t, root, "sync"); err != nil {
		t.Fatalf("sync: %v", err)
	}
	got := readTree(t, filepath.Join(root, "locales", "de.json"))
	want := map[string]string{"a": "Ä", "b.c": ""}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("de.json after sync = %v, want %v", got, want)
	}

	if _, err := execute(t, root, "validate"); err != nil {
		t.Fatalf("validate after sync = %v, want nil", err)
	}
}

func TestSyncPages(t *testing.T) {
	root := newProject(t, map[string]string{
		".nuxtkit.yaml":              projectFile,
		"locales/en.json":            `{}`,
		"locales/pages/blog/en.json": `{"title": "Blog"}`,
	})
	if _, err := execute(t, root, "sync", "--pages"); err != nil {
		t.Fatalf("sync --pages: %v", err)
	}
	got := readTree(t, filepath.Join(root, "locales", "pages", "blog", "de.json"))
	if !reflect.DeepEqual(got, map[string]string{"title": ""}) {
		t.Fatalf("pages/blog/de.json = %v", got)
	}
}

func TestDiffCommandJSON(t *testing.T) {
	root := newProject(t, map[string]string{
		".nuxtkit.yaml":              projectFile,
		"locales/en.json":            `{"a": "A", "b": "B"}`,
		"locales/de.json":            `{"a": "Ä"}`,
		"locales/pages/blog/en.json": `{"title": "Blog"}`,
	})

	out, err := execute(t, root, "diff", "--output", "json")
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	var diffs []fileDiff
	if err := json.Unmarshal([]byte(out), &diffs); err != nil {
		t.Fatalf("diff output is not JSON: %v\n%s", err, out)
	}
	if len(diffs) != 2 {
		t.Fatalf("diff = %+v, want 2 entries", diffs)
	}
	if diffs[0].File != "en.json" || diffs[0].Locale != "de" || diffs[0].Type != "" {
		t.Fatalf("diffs[0] = %+v", diffs[0])
	}
	if len(diffs[0].MissingInLocale) != 1 || diffs[0].MissingInLocale[0].Key != "b" || diffs[0].MissingInLocale[0].DefaultValue != "B" {
		t.Fatalf("missing keys = %+v, want b=B", diffs[0].MissingInLocale)
	}
	if diffs[1].File != "pages/blog/en.json" || diffs[1].Type != "missing_in_locale" {
		t.Fatalf("diffs[1] = %+v", diffs[1])
	}

	if _, err := execute(t, root, "diff", "--output", "xml"); err == nil {
		t.Fatal("diff --output xml should fail")
	}
}

func TestComputeStats(t *testing.T) {
	root := newProject(t, map[string]string{
		"en.json":              `{"a": "A", "b": "B"}`,
		"de.json":              `{"a": "Ä", "b": "", "extra": "E"}`,
		"pages/blog/en.json":   `{"t": "T", "u": "U"}`,
		"pages/blog/de.json":   `{"t": "T"}`,
		"pages/orphan/de.json": `{"x": "X"}`,
	})
	dir := localedir.New(root)

	s := computeStats(dir, "en", "de", []string{"blog", "orphan"})
	if s.Global.Total != 2 || s.Global.Translated != 1 {
		t.Fatalf("global = %+v, want 1/2", s.Global)
	}
	if _, ok := s.Pages["orphan"]; ok {
		t.Fatal("a page without reference file should not count")
	}
	if s.Combined.Total != 4 || s.Combined.Translated != 2 {
		t.Fatalf("combined = %+v, want 2/4", s.Combined)
	}
}

func TestStatsCommand(t *testing.T) {
	color.NoColor = true
	root := newProject(t, map[string]string{
		".nuxtkit.yaml":   projectFile,
		"locales/en.json": `{"a": "A", "b": "B"}`,
		"locales/de.json": `{"a": "Ä"}`,
	})
	out, err := execute(t, root, "stats", "--full")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"English (en)", "Deutsch (de)", "global", "1/2", "2/2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("stats output lacks %q:\n%s", want, out)
		}
	}
}

func TestCleanCommand(t *testing.T) {
	files := map[string]string{
		".nuxtkit.yaml":              projectFile,
		"layouts/default.vue":        `{{ $t('nav.home') }}`,
		"pages/blog.vue":             `{{ $t('title') }}`,
		"locales/en.json":            `{"nav": {"home": "Home", "old": "Old"}, "errors": {"404": "Not found"}}`,
		"locales/pages/blog/en.json": `{"title": "Blog", "stale": "S"}`,
	}

	root := newProject(t, files)
	if _, err := execute(t, root, "clean", "--dry-run"); err != nil {
		t.Fatalf("clean --dry-run: %v", err)
	}
	if got := readTree(t, filepath.Join(root, "locales", "en.json")); len(got) != 3 {
		t.Fatalf("dry run changed en.json: %v", got)
	}

	if _, err := execute(t, root, "clean", "--keep", "errors.**"); err != nil {
		t.Fatalf("clean: %v", err)
	}
	got := readTree(t, filepath.Join(root, "locales", "en.json"))
	want := map[string]string{"nav.home": "Home", "errors.404": "Not found"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("en.json after clean = %v, want %v", got, want)
	}
	page := readTree(t, filepath.Join(root, "locales", "pages", "blog", "en.json"))
	if !reflect.DeepEqual(page, map[string]string{"title": "Blog"}) {
		t.Fatalf("pages/blog/en.json after clean = %v", page)
	}
}

func TestCleanCommand_PrunesLockFile(t *testing.T) {
	root := newProject(t, map[string]string{
		".nuxtkit.yaml":       projectFile,
		"layouts/default.vue": `{{ $t('nav.home') }}`,
		"locales/en.json":     `{"nav": {"home": "Home", "old": "Old"}}`,
		"locales/de.json":     `{"nav": {"home": "Start", "old": "Alt"}}`,
	})
	seed, err := lockfile.Load(root)
	if err != nil {
		t.Fatalf("lockfile.Load: %v", err)
	}
	seed.Update("locales/de.json", "nav.home", "Home")
	seed.Update("locales/de.json", "nav.old", "Old")
	if err := seed.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := execute(t, root, "clean"); err != nil {
		t.Fatalf("clean: %v", err)
	}
	lock, err := lockfile.Load(root)
	if err != nil {
		t.Fatalf("lockfile.Load: %v", err)
	}
	got := lock.Checksums["locales/de.json"]
	if _, ok := got["nav.old"]; ok {
		t.Fatalf("checksum of removed key kept: %v", got)
	}
	if _, ok := got["nav.home"]; !ok {
		t.Fatalf("checksum of used key dropped: %v", got)
	}
}

func TestCheckDuplicates(t *testing.T) {
	root := newProject(t, map[string]string{
		"de.json":            `{"ok": "OK", "yes": "Ja"}`,
		"pages/form/de.json": `{"submit": "OK"}`,
	})
	dups, err := findDuplicates(localedir.New(root), "de")
	if err != nil {
		t.Fatalf("findDuplicates: %v", err)
	}
	if len(dups) != 1 || dups[0].Value != "OK" {
		t.Fatalf("duplicates = %+v, want one for OK", dups)
	}
	want := []string{"global - ok", "pages/form - submit"}
	if !reflect.DeepEqual(dups[0].Locations, want) {
		t.Fatalf("locations = %v, want %v", dups[0].Locations, want)
	}
}

func TestReplaceValuesCommand(t *testing.T) {
	root := newProject(t, map[string]string{
		".nuxtkit.yaml":              projectFile,
		"locales/en.json":            `{"a": "3 items", "b": "none"}`,
		"locales/pages/shop/de.json": `{"c": "12 items"}`,
	})
	_, err := execute(t, root, "replace-values", "--useRegex", "--search", `(\d+) items`, "--replace", "$1 things")
	if err != nil {
		t.Fatalf("replace-values: %v", err)
	}
	if got := readTree(t, filepath.Join(root, "locales", "en.json")); got["a"] != "3 things" || got["b"] != "none" {
		t.Fatalf("en.json = %v", got)
	}
	if got := readTree(t, filepath.Join(root, "locales", "pages", "shop", "de.json")); got["c"] != "12 things" {
		t.Fatalf("pages/shop/de.json = %v", got)
	}
}

func TestCSVRoundTripCommands(t *testing.T) {
	root := newProject(t, map[string]string{
		".nuxtkit.yaml":              projectFile,
		"locales/de.json":            `{"a": "A"}`,
		"locales/pages/home/de.json": `{"b": {"c": "C"}}`,
	})
	if _, err := execute(t, root, "export-csv"); err != nil {
		t.Fatalf("export-csv: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "csv_exports", "de.csv"))
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	want := "File,Key,Translation\nde.json,a,A\npages/home/de.json,b.c,C\n"
	if string(data) != want {
		t.Fatalf("de.csv = %q, want %q", data, want)
	}

	edited := "File,Key,Translation\nde.json,a,Neu\npages/home/de.json,b.d,D\n../evil.json,x,X\n"
	if err := os.WriteFile(filepath.Join(root, "csv_exports", "de.csv"), []byte(edited), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, root, "import-csv"); err != nil {
		t.Fatalf("import-csv: %v", err)
	}
	if got := readTree(t, filepath.Join(root, "locales", "de.json")); got["a"] != "Neu" {
		t.Fatalf("de.json = %v", got)
	}
	page := readTree(t, filepath.Join(root, "locales", "pages", "home", "de.json"))
	if !reflect.DeepEqual(page, map[string]string{"b.c": "C", "b.d": "D"}) {
		t.Fatalf("pages/home/de.json = %v", page)
	}
	if fileExists(filepath.Join(root, "evil.json")) {
		t.Fatal("import-csv wrote outside the translation directory")
	}
}

func TestPORoundTripCommands(t *testing.T) {
	root := newProject(t, map[string]string{
		".nuxtkit.yaml":              projectFile,
		"locales/de.json":            `{"nav": {"home": "Startseite"}}`,
		"locales/pages/home/de.json": `{"hero": "Held"}`,
	})
	if _, err := execute(t, root, "export", "--potsDir", "po"); err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, rel := range []string{"de.po", "pages/home/de.po"} {
		if !fileExists(filepath.Join(root, "po", filepath.FromSlash(rel))) {
			t.Fatalf("export did not write %s", rel)
		}
	}

	if err := os.RemoveAll(filepath.Join(root, "locales")); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, root, "import", "--potsDir", "po"); err != nil {
		t.Fatalf("import: %v", err)
	}
	if got := readTree(t, filepath.Join(root, "locales", "de.json")); got["nav.home"] != "Startseite" {
		t.Fatalf("de.json = %v", got)
	}
	if got := readTree(t, filepath.Join(root, "locales", "pages", "home", "de.json")); got["hero"] != "Held" {
		t.Fatalf("pages/home/de.json = %v", got)
	}
}

func TestInitCommand(t *testing.T) {
	root := newProject(t, map[string]string{
		"locales/en.json": `{}`,
		"locales/de.json": `{}`,
	})
	if _, err := execute(t, root, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	f, _, err := config.LoadFile(root)
	if err != nil || f == nil {
		t.Fatalf("LoadFile after init = %v, %v", f, err)
	}
	if f.DefaultLocale != "en" || len(f.Locales) != 2 || f.Locales[0].Code != "en" {
		t.Fatalf("project file = %+v", f)
	}
	if _, err := execute(t, root, "init"); err == nil {
		t.Fatal("second init without --force should fail")
	}
}

func TestMissingConfig(t *testing.T) {
	_, err := execute(t, t.TempDir(), "sync")
	if !errors.Is(err, config.ErrNoConfig) {
		t.Fatalf("sync without config = %v, want ErrNoConfig", err)
	}
}

func TestTranslateWithTestServer(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["q"] == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": "boom"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"translatedText": body["target"] + ":" + body["q"]})
	}))
	defer srv.Close()

	root := newProject(t, map[string]string{
		".nuxtkit.yaml":              projectFile,
		"locales/en.json":            `{"a": "Hello", "b": "fail", "c": "Done"}`,
		"locales/de.json":            `{"c": "Fertig"}`,
		"locales/pages/home/en.json": `{"hero": "Hero"}`,
	})
	useDataHome(t)
	_, err := execute(t, root, "translate", "--service", "libretranslate", "--options", "baseUrl:"+srv.URL)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}

	got := readTree(t, filepath.Join(root, "locales", "de.json"))
	want := map[string]string{"c": "Fertig", "a": "de:Hello"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("de.json = %v, want %v", got, want)
	}
	page := readTree(t, filepath.Join(root, "locales", "pages", "home", "de.json"))
	if page["hero"] != "de:Hero" {
		t.Fatalf("pages/home/de.json = %v", page)
	}
	if n := requests.Load(); n != 3 {
		t.Fatalf("requests = %d, want 3", n)
	}
}

func TestTranslateUnknownService(t *testing.T) {
	root := newProject(t, map[string]string{".nuxtkit.yaml": projectFile})
	if _, err := execute(t, root, "translate", "--service", "nope"); err == nil {
		t.Fatal("translate with an unknown service should fail")
	}
}

func TestTranslateIncremental(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]string{"translatedText": "v:" + body["q"]})
	}))
	defer srv.Close()

	root := newProject(t, map[string]string{
		".nuxtkit.yaml":   projectFile,
		"locales/en.json": `{"a": "One"}`,
	})
	useDataHome(t)
	opts := "baseUrl:" + srv.URL
	if _, err := execute(t, root, "translate", "--service", "libretranslate", "--options", opts, "--incremental"); err != nil {
		t.Fatalf("first translate: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "locales", "en.json"), []byte(`{"a": "Two"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, root, "translate", "--service", "libretranslate", "--options", opts, "--incremental"); err != nil {
		t.Fatalf("second translate: %v", err)
	}
	if got := readTree(t, filepath.Join(root, "locales", "de.json")); got["a"] != "v:Two" {
		t.Fatalf("de.json = %v, want a=v:Two", got)
	}
}

func TestAuthLoginListLogout(t *testing.T) {
	useDataHome(t)
	root := t.TempDir()

	if _, err := execute(t, root, "auth", "login", "--service", "deepl", "--token", "deepl-secret-key", "--options", "formality:less"); err != nil {
		t.Fatalf("auth login: %v", err)
	}
	out, err := execute(t, root, "auth", "list")
	if err != nil {
		t.Fatalf("auth list: %v", err)
	}
	if !strings.Contains(out, "deepl") || !strings.Contains(out, "options: formality:less") || strings.Contains(out, "deepl-secret-key") {
		t.Fatalf("auth list output = %q", out)
	}

	cred, opts, err := resolveCredential(&config.Project{}, mustService(t, "deepl"), "", nil)
	if err != nil || cred != "deepl-secret-key" || opts != "formality:less" {
		t.Fatalf("resolveCredential = %q, %q, %v; want stored credential", cred, opts, err)
	}

	if _, err := execute(t, root, "auth", "logout", "--service", "deepl"); err != nil {
		t.Fatalf("auth logout: %v", err)
	}
	out, err = execute(t, root, "auth", "list")
	if err != nil {
		t.Fatalf("auth list: %v", err)
	}
	if !strings.Contains(out, "none") {
		t.Fatalf("auth list after logout = %q", out)
	}
}

func TestAuthLoginPrompt(t *testing.T) {
	useDataHome(t)

	if err := runAuthLogin("google", "", "", bufio.NewReader(strings.NewReader("typed-key\n"))); err != nil {
		t.Fatalf("runAuthLogin: %v", err)
	}
	cred, _, err := resolveCredential(&config.Project{}, mustService(t, "google"), "", nil)
	if err != nil || cred != "typed-key" {
		t.Fatalf("resolveCredential = %q, %v; want typed-key", cred, err)
	}
	if cred, _, _ := resolveCredential(&config.Project{}, mustService(t, "google"), "flag", nil); cred != "flag" {
		t.Fatalf("resolveCredential with flag = %q, want flag", cred)
	}
	if err := runAuthLogin("nope", "x", "", nil); !errors.Is(err, translate.ErrUnsupportedService) {
		t.Fatalf("runAuthLogin(nope) = %v, want ErrUnsupportedService", err)
	}
}

func TestNeedsCredential(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"deepl", true},
		{"baidu", true},
		{"googlefree", false},
		{"libretranslate", false},
		{"mymemory", false},
	}
	for _, tt := range tests {
		if got := needsCredential(mustService(t, tt.name)); got != tt.want {
			t.Fatalf("needsCredential(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestResolveCredentialPrompt(t *testing.T) {
	useDataHome(t)
	p := &config.Project{}

	cred, _, err := resolveCredential(p, mustService(t, "deepl"), "", bufio.NewReader(strings.NewReader("typed\n")))
	if err != nil || cred != "typed" {
		t.Fatalf("resolveCredential(prompt) = %q, %v", cred, err)
	}
	if _, _, err := resolveCredential(p, mustService(t, "deepl"), "", bufio.NewReader(strings.NewReader("\n"))); err == nil {
		t.Fatal("an empty prompted credential should fail")
	}
	cred, _, err = resolveCredential(p, mustService(t, "googlefree"), "", nil)
	if err != nil || cred != "" {
		t.Fatalf("googlefree needs no credential, got %q, %v", cred, err)
	}
	p.Token = "env"
	if cred, _, _ := resolveCredential(p, mustService(t, "deepl"), "", nil); cred != "env" {
		t.Fatalf("resolveCredential(env) = %q, want env", cred)
	}
}

func TestTranslationJobs(t *testing.T) {
	root := newProject(t, map[string]string{
		"en.json":            `{"a": "A"}`,
		"pages/blog/en.json": `{"b": "B"}`,
		"pages/blog/de.json": `{"b": "Bee"}`,
	})
	jobs, err := translationJobs(localedir.New(root), "en", []string{"de", "fr"})
	if err != nil {
		t.Fatalf("translationJobs: %v", err)
	}
	if len(jobs) != 4 {
		t.Fatalf("jobs = %d, want 4", len(jobs))
	}
	if jobs[1].Scope != "pages/blog" || jobs[1].Locale != "de" || jobs[1].Path != filepath.Join(root, "pages", "blog", "de.json") {
		t.Fatalf("jobs[1] = %+v", jobs[1])
	}
	if v, _ := tree.GetString(jobs[1].Target, "b"); v != "Bee" {
		t.Fatalf("jobs[1] target b = %q, want Bee", v)
	}
	if jobs[2].Scope != "global" || jobs[2].Locale != "fr" || jobs[2].Target.Len() != 0 {
		t.Fatalf("jobs[2] = %+v", jobs[2])
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, t.TempDir(), "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "nuxtkit version dev") {
		t.Fatalf("version output = %q", out)
	}
}

func TestServicesCommand(t *testing.T) {
	useDataHome(t)
	out, err := execute(t, t.TempDir(), "services")
	if err != nil {
		t.Fatalf("services: %v", err)
	}
	for _, name := range []string{"deepl", "googlefree", "tencent", "unbabel"} {
		if !strings.Contains(out, name) {
			t.Fatalf("services output lacks %s:\n%s", name, out)
		}
	}
}

func mustService(t *testing.T, name string) translate.Descriptor {
	t.Helper()
	d, err := resolveService(&config.Project{}, name, nil)
	if err != nil {
		t.Fatalf("resolveService(%s): %v", name, err)
	}
	return d
}
