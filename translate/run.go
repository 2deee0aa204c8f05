package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/minios-linux/nuxtkit/lockfile"
	"github.com/minios-linux/nuxtkit/tree"
)

// Job is one (scope, locale) pair: the reference tree of a scope and the
// target tree it fills. Target is modified in place.
type Job struct {
	Scope  string // "global" or "pages/<page>"
	Locale string
	Source *tree.Node
	Target *tree.Node
	Path   string // file the target is written to
}

// Result reports what happened to one job.
type Result struct {
	Job        Job
	Candidates int
	Translated int
	Failed     int
	// Skipped is set when the job had no candidates and its file was left
	// untouched.
	Skipped bool
	// Err is the error from writing the target file.
	Err error
}

// CandidateKeys returns the keys of source that need translating, in source
// order. In fill mode a key is a candidate when the target lacks it or holds
// an empty string; a target holding a nested object under the key keeps it.
// In replace mode every string leaf is a candidate. Empty source strings are
// never candidates.
func CandidateKeys(source, target *tree.Node, replace bool) []string {
	var keys []string
	for _, e := range tree.Entries(source) {
		if e.Value == "" {
			continue
		}
		if replace || missing(target, e.Key) {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

func missing(target *tree.Node, key string) bool {
	v, ok := tree.Get(target, key)
	if !ok {
		return true
	}
	return v.IsLeaf() && v.String() == ""
}

// ---------------------------------------------------------------------------
// Runner
// ---------------------------------------------------------------------------

// Runner sends the candidate keys of a list of jobs to one service.
type Runner struct {
	Service    string
	Credential string
	Options    Options
	// From is the reference locale code.
	From string
	// Replace re-translates every key instead of filling gaps.
	Replace bool
	// Concurrency bounds the number of jobs in flight. Values below 1 mean 1.
	Concurrency int

	// Lock, when set, makes fill mode also re-send keys whose source text
	// changed since their last translation. Checksums of keys the source
	// no longer has are dropped. LockRoot is the directory target paths
	// are recorded relative to.
	Lock     *lockfile.LockFile
	LockRoot string

	// Registry defaults to Services.
	Registry *Registry
	// Logger defaults to a discarding logger.
	Logger *slog.Logger
	// Progress is called after every attempted key. It may be called from
	// several goroutines.
	Progress func(job Job, key string, err error)
	// Save defaults to tree.Save.
	Save func(path string, n *tree.Node) error
}

func (r *Runner) registry() *Registry {
	if r.Registry != nil {
		return r.Registry
	}
	return Services
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Candidates returns the keys job will send, taking the lock file into
// account.
func (r *Runner) Candidates(job Job) []string {
	if r.Replace || r.Lock == nil {
		return CandidateKeys(job.Source, job.Target, r.Replace)
	}
	target := lockfile.Target(r.LockRoot, job.Path)
	var keys []string
	for _, e := range tree.Entries(job.Source) {
		if e.Value == "" {
			continue
		}
		if missing(job.Target, e.Key) || r.Lock.Stale(target, e.Key, e.Value) {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Total counts the candidates of every job.
func (r *Runner) Total(jobs []Job) int {
	n := 0
	for _, job := range jobs {
		n += len(r.Candidates(job))
	}
	return n
}

// Run translates every job and returns one Result per job in job order.
// An unknown service or an unusable credential fails before any request is
// made. Per-key failures are logged and skipped; the returned error joins
// the errors from writing target files.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	if _, err := r.registry().New(r.Service, r.Credential, r.Options); err != nil {
		return nil, err
	}

	limit := r.Concurrency
	if limit < 1 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)

	results := make([]Result, len(jobs))
	for i, job := range jobs {
		g.Go(func() error {
			results[i] = r.runJob(ctx, job)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return results, errors.Join(errs...)
}

func (r *Runner) runJob(ctx context.Context, job Job) Result {
	log := r.logger().With("locale", job.Locale, "scope", job.Scope)
	res := Result{Job: job}

	var target string
	if r.Lock != nil {
		target = lockfile.Target(r.LockRoot, job.Path)
		if n := r.Lock.Clean(target, tree.Keys(job.Source)); n > 0 {
			log.Debug("dropped checksums of removed keys", "count", n)
		}
	}

	keys := r.Candidates(job)
	res.Candidates = len(keys)
	if len(keys) == 0 {
		log.Info("no translations needed")
		res.Skipped = true
		return res
	}

	for _, key := range keys {
		if ctx.Err() != nil {
			log.Warn("translation interrupted", "remaining", len(keys)-res.Translated-res.Failed)
			break
		}
		source, _ := tree.GetString(job.Source, key)
		err := r.translateKey(ctx, job, key, source)
		if err != nil {
			res.Failed++
			log.Error("failed to translate", "key", key, "err", err)
		} else {
			res.Translated++
			log.Debug("translated", "key", key)
			if r.Lock != nil {
				r.Lock.Update(target, key, source)
			}
		}
		if r.Progress != nil {
			r.Progress(job, key, err)
		}
	}

	save := r.Save
	if save == nil {
		save = tree.Save
	}
	if err := save(job.Path, job.Target); err != nil {
		res.Err = fmt.Errorf("writing %s: %w", job.Path, err)
		log.Error("failed to write translations", "path", job.Path, "err", err)
		return res
	}
	log.Info("translations written", "path", job.Path, "translated", res.Translated, "failed", res.Failed)
	return res
}

// translateKey builds a fresh driver for one call, the way a single
// TranslateText call does, and stores a non-empty result in the target.
func (r *Runner) translateKey(ctx context.Context, job Job, key, source string) error {
	t, err := r.registry().New(r.Service, r.Credential, r.Options)
	if err != nil {
		return err
	}
	out, err := t.Translate(ctx, source,
		MapLanguageCode(r.Service, r.From),
		MapLanguageCode(r.Service, job.Locale),
		r.Options)
	if err != nil {
		return err
	}
	if out == "" {
		return errors.New("empty translation")
	}
	tree.SetString(job.Target, key, out)
	return nil
}
