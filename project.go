package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/minios-linux/nuxtkit/config"
	"github.com/minios-linux/nuxtkit/localedir"
	"github.com/minios-linux/nuxtkit/tree"
)

// loadProject resolves the configuration of the --cwd project and applies
// --translationDir. A log level set through the environment takes effect
// unless --logLevel was given.
func loadProject() (*config.Project, error) {
	p, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}
	if translationDir != "" {
		dir := translationDir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(p.Root, dir)
		}
		p.TranslationDir = dir
	}
	if !logLevel.changed && p.LogLevel != "" {
		var lf levelFlag
		if err := lf.Set(p.LogLevel); err != nil {
			logWarning("ignoring %sLOG_LEVEL: %v", config.EnvPrefix, err)
		} else {
			setLogger(newLogger(os.Stderr, lf.Level(), lf.Silent()))
		}
	}
	logger.Debug("loaded configuration",
		"source", p.Source,
		"translationDir", p.TranslationDir,
		"locales", strings.Join(p.Codes(), ","))
	return p, nil
}

func projectDir(p *config.Project) localedir.Dir {
	return localedir.New(p.TranslationDir)
}

// resolvePath makes a command-line directory absolute against the project
// root.
func resolvePath(p *config.Project, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(p.Root, dir)
}

// loadTree reads a translation file. A missing file is an empty tree; a
// malformed one is logged and treated as empty.
func loadTree(path string) *tree.Node {
	n, err := tree.Load(path)
	if err != nil {
		logger.Warn("failed to load translations", "file", path, "err", err)
	}
	return n
}

func saveTree(path string, n *tree.Node) error {
	if err := tree.Save(path, n); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logger.Debug("wrote translations", "file", path)
	return nil
}

// fileExists reports whether path is an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// otherLocales returns the configured codes except ref.
func otherLocales(p *config.Project, ref string) []string {
	var out []string
	for _, code := range p.Codes() {
		if code != ref {
			out = append(out, code)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Prompts
// ---------------------------------------------------------------------------

var stdin io.Reader = os.Stdin

// prompt prints question to stderr and reads one trimmed line.
func prompt(r *bufio.Reader, question string) (string, error) {
	fmt.Fprint(os.Stderr, question)
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("no input received")
	}
	return strings.TrimSpace(line), nil
}
