package extract

import (
	"io"
	"log/slog"
	"os"
)

// Walker follows component references from a source unit and collects
// every key reachable from it.
type Walker struct {
	Resolver *Resolver
	// ReadFile defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)
	Logger   *slog.Logger
}

func (w *Walker) read(path string) ([]byte, error) {
	if w.ReadFile != nil {
		return w.ReadFile(path)
	}
	return os.ReadFile(path)
}

func (w *Walker) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Collect returns the keys of a page: the keys in text itself plus, for
// every component tag in text, the keys reachable from that component.
// Each referenced component is walked with its own visited set.
func (w *Walker) Collect(text string) KeySet {
	keys := Keys(text)
	for _, tag := range Tags(text) {
		for _, file := range w.Resolver.Resolve(tag) {
			keys.Merge(w.Walk(file, make(map[string]bool)))
		}
	}
	return keys
}

// Walk returns the keys of the component at path and of every component it
// references, transitively. Files already in visited contribute nothing,
// so reference cycles terminate after each file is read once.
func (w *Walker) Walk(path string, visited map[string]bool) KeySet {
	keys := make(KeySet)
	if visited[path] {
		return keys
	}
	visited[path] = true

	data, err := w.read(path)
	if err != nil {
		w.logger().Debug("skipping unreadable component", "file", path, "err", err)
		return keys
	}
	text := string(data)
	keys.Merge(Keys(text))

	for _, tag := range Tags(text) {
		for _, file := range w.Resolver.Resolve(tag) {
			keys.Merge(w.Walk(file, visited))
		}
	}
	return keys
}
