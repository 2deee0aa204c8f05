package settings

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDataDirAndFilePathUseXDGDataHome(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	dir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir() error: %v", err)
	}
	if want := filepath.Join(tmp, "nuxtkit"); dir != want {
		t.Fatalf("DataDir() = %q, want %q", dir, want)
	}
	if got, want := FilePath(), filepath.Join(tmp, "nuxtkit", "credentials.yaml"); got != want {
		t.Fatalf("FilePath() = %q, want %q", got, want)
	}
}

func TestDataDirFallsBackToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", home)

	dir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir() error: %v", err)
	}
	if want := filepath.Join(home, ".local", "share", "nuxtkit"); dir != want {
		t.Fatalf("DataDir() = %q, want %q", dir, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	store, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(store) != 0 {
		t.Fatalf("Load() = %#v, want empty", store)
	}
}

func TestLoadMalformed(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)
	if err := os.MkdirAll(filepath.Join(tmp, "nuxtkit"), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(FilePath(), []byte("deepl: [oops"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("Load() of a malformed file should fail")
	}
}

func TestSetGetRemoveLifecycle(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	if err := Set("DeepL", &Info{Credential: "deepl-key-123456"}); err != nil {
		t.Fatalf("Set(deepl) error: %v", err)
	}
	if err := Set("baidu", &Info{Credential: "app:secret", Options: "timeout:5000"}); err != nil {
		t.Fatalf("Set(baidu) error: %v", err)
	}

	info, err := os.Stat(FilePath())
	if err != nil {
		t.Fatalf("stat credentials file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("credentials file mode = %o, want 600", info.Mode().Perm())
	}

	got, err := Get("deepl")
	if err != nil || got == nil || got.Credential != "deepl-key-123456" {
		t.Fatalf("Get(deepl) = %#v, %v", got, err)
	}
	got, err = Get(" Baidu ")
	if err != nil || got == nil || got.Options != "timeout:5000" {
		t.Fatalf("Get(Baidu) = %#v, %v", got, err)
	}

	store, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(store.Services(), []string{"baidu", "deepl"}) {
		t.Fatalf("Services() = %v", store.Services())
	}

	removed, err := Remove("deepl")
	if err != nil || !removed {
		t.Fatalf("Remove(deepl) = %v, %v; want true", removed, err)
	}
	if got, _ := Get("deepl"); got != nil {
		t.Fatalf("Get(deepl) after remove = %#v, want nil", got)
	}
	removed, err = Remove("missing")
	if err != nil || removed {
		t.Fatalf("Remove(missing) = %v, %v; want false", removed, err)
	}

	if err := RemoveAll(); err != nil {
		t.Fatalf("RemoveAll() error: %v", err)
	}
	if _, err := os.Stat(FilePath()); !os.IsNotExist(err) {
		t.Fatalf("credentials file should be removed, stat err=%v", err)
	}
}

func TestSetRejectsEmptyCredential(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	if err := Set("google", &Info{}); err == nil {
		t.Fatal("Set with an empty credential should fail")
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "****"},
		{"12345678", "****"},
		{"abcdefghijkl", "abcd...ijkl"},
	}
	for _, tt := range tests {
		if got := MaskKey(tt.in); got != tt.want {
			t.Errorf("MaskKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
