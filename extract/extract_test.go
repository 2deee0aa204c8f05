package extract

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", rel, err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return p
}

func TestKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "plain and plural",
			text: `<h1>{{ $t('welcome.title') }}</h1><p>{{ $tc('apples', 3) }}</p>`,
			want: []string{"apples", "welcome.title"},
		},
		{
			name: "quote styles",
			text: "$t(\"a.b\") $t(`c`) $t('d')",
			want: []string{"a.b", "c", "d"},
		},
		{
			name: "duplicates collapse",
			text: `$t('x') $t('x') $tc('x', 1)`,
			want: []string{"x"},
		},
		{
			name: "dynamic keys skipped",
			text: "$t(prefix + '.title') $t(`menu.${item}`) $t(key)",
			want: []string{},
		},
		{
			name: "plural without count skipped",
			text: `$tc('apples') $tc('pears', n)`,
			want: []string{},
		},
		{
			name: "extra arguments skipped",
			text: `$t('greeting', { name })`,
			want: []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Keys(tc.text).Sorted()
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Keys(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestCandidateNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rel  string
		want []string
	}{
		{rel: "user/Card.vue", want: []string{"user-card", "UserCard"}},
		{rel: "Header.vue", want: []string{"header", "Header"}},
		{rel: "AppNavBar.vue", want: []string{"app-nav-bar", "AppNavBar"}},
		{rel: "forms/inputs/TextField.ts", want: []string{"forms-inputs-text-field", "FormsInputsTextField"}},
	}

	for _, tc := range tests {
		if got := candidateNames(tc.rel); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("candidateNames(%q) = %v, want %v", tc.rel, got, tc.want)
		}
	}
}

func TestComponentNamesSkipsNodeModules(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	card := writeFile(t, root, "user/Card.vue", "")
	writeFile(t, root, "node_modules/lib/Thing.vue", "")
	writeFile(t, root, "README.md", "")

	names, err := ComponentNames(root)
	if err != nil {
		t.Fatalf("ComponentNames: %v", err)
	}
	want := map[string][]string{card: {"user-card", "UserCard"}}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("ComponentNames = %v, want %v", names, want)
	}
}

func TestResolver(t *testing.T) {
	t.Parallel()

	r := NewResolver(map[string][]string{
		"/c/user/Card.vue": {"user-card", "UserCard"},
		"/c/UserCard.vue":  {"user-card", "UserCard"},
		"/c/Header.vue":    {"header", "Header"},
	})

	tests := []struct {
		tag  string
		want []string
	}{
		{tag: "UserCard", want: []string{"/c/UserCard.vue", "/c/user/Card.vue"}},
		{tag: "user-card", want: []string{"/c/UserCard.vue", "/c/user/Card.vue"}},
		{tag: "Header", want: []string{"/c/Header.vue"}},
		{tag: "HEADER", want: []string{"/c/Header.vue"}},
		{tag: "Footer", want: nil},
	}
	for _, tc := range tests {
		if got := r.Resolve(tc.tag); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Resolve(%q) = %v, want %v", tc.tag, got, tc.want)
		}
	}
}

func TestTags(t *testing.T) {
	t.Parallel()

	text := `<template><div><UserCard /><user-card/><span>x</span><UserCard></UserCard><my-button></div></template>`
	want := []string{"UserCard", "user-card", "my-button"}
	if got := Tags(text); !reflect.DeepEqual(got, want) {
		t.Fatalf("Tags = %v, want %v", got, want)
	}
}

func TestWalkerAttributesComponentKeys(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	components := filepath.Join(root, "components")
	writeFile(t, components, "user/Card.vue", `<template><p>{{ $t('user.name') }}</p><user-avatar /></template>`)
	writeFile(t, components, "user/Avatar.vue", `<img :alt="$t('user.avatar')">`)

	r, err := LoadResolver(components)
	if err != nil {
		t.Fatalf("LoadResolver: %v", err)
	}
	w := &Walker{Resolver: r}

	got := w.Collect(`<template><h1>{{ $t('profile.title') }}</h1><UserCard /></template>`).Sorted()
	want := []string{"profile.title", "user.avatar", "user.name"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Collect = %v, want %v", got, want)
	}
}

func TestWalkerCycles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	self := writeFile(t, root, "TreeItem.vue", `<li>{{ $t('tree.item') }}<TreeItem /></li>`)
	ping := writeFile(t, root, "Ping.vue", `{{ $t('ping') }}<Pong />`)
	writeFile(t, root, "Pong.vue", `{{ $t('pong') }}<Ping />`)

	r, err := LoadResolver(root)
	if err != nil {
		t.Fatalf("LoadResolver: %v", err)
	}
	w := &Walker{Resolver: r}

	if got, want := w.Walk(self, map[string]bool{}).Sorted(), []string{"tree.item"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Walk(self-reference) = %v, want %v", got, want)
	}
	if got, want := w.Walk(ping, map[string]bool{}).Sorted(), []string{"ping", "pong"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Walk(mutual reference) = %v, want %v", got, want)
	}
}

func TestWalkerUnreadableComponent(t *testing.T) {
	t.Parallel()

	w := &Walker{
		Resolver: NewResolver(map[string][]string{"/gone/Ghost.vue": {"ghost", "Ghost"}}),
		ReadFile: func(string) ([]byte, error) { return nil, os.ErrNotExist },
	}
	got := w.Collect(`$t('page') <Ghost />`).Sorted()
	if want := []string{"page"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Collect = %v, want %v", got, want)
	}
}

func TestPageKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rel  string
		want string
	}{
		{rel: "index.vue", want: "index"},
		{rel: "about.vue", want: "about"},
		{rel: "blog/index.vue", want: "blog"},
		{rel: "blog/[slug].vue", want: "blog"},
		{rel: "users/[id]/edit.vue", want: "users-edit"},
		{rel: "Contact Us.vue", want: "contact_us"},
		{rel: "shop/Cart.ts", want: "shop-cart"},
		{rel: "legal/terms&conditions.vue", want: "legal-termsconditions"},
	}
	for _, tc := range tests {
		if got := PageKey(tc.rel); got != tc.want {
			t.Fatalf("PageKey(%q) = %q, want %q", tc.rel, got, tc.want)
		}
	}
}

func TestScan(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "pages/index.vue", `<h1>{{ $t('home.title') }}</h1><UserCard />`)
	writeFile(t, root, "pages/blog/[slug].vue", `{{ $t('blog.read') }}`)
	writeFile(t, root, "components/user/Card.vue", `{{ $t('user.name') }}`)
	writeFile(t, root, "layouts/default.vue", `{{ $t('nav.home') }}`)
	writeFile(t, root, "plugins/i18n.ts", `app.$t('plugin.ready')`)
	writeFile(t, root, "node_modules/x/layouts/Bad.vue", `{{ $t('never') }}`)

	res, err := Scan(root, nil)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if got, want := res.PageNames(), []string{"blog", "index"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("PageNames = %v, want %v", got, want)
	}
	if got, want := res.Pages["index"].Sorted(), []string{"home.title", "user.name"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Pages[index] = %v, want %v", got, want)
	}
	if got, want := res.Global.Sorted(), []string{"nav.home", "plugin.ready", "user.name"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Global = %v, want %v", got, want)
	}
}

func TestIsSource(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]bool{
		"a.vue":        true,
		"dir/b.ts":     true,
		"c.js":         true,
		"d.tsx":        false,
		"e.json":       false,
		"vue":          false,
		"nested/f.vue": true,
	} {
		if got := IsSource(name); got != want {
			t.Fatalf("IsSource(%q) = %v, want %v", name, got, want)
		}
	}
}
