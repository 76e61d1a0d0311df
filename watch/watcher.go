package watch

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pterm/pterm"

	"github.com/thisismy-go/thisismy/fetcher"
	"github.com/thisismy-go/thisismy/resolver"
)

// ErrExit is returned by Run when the operator chose to exit at the gate.
var ErrExit = errors.New("watch: operator exit")

// DefaultInterval is the remote poll period when none is configured.
const DefaultInterval = 5 * time.Minute

// RunFunc re-runs downstream processing after a confirmed change.
type RunFunc func() error

// Options configures a watch session.
type Options struct {
	// Interval is the remote poll period. Values below one minute fall back
	// to DefaultInterval.
	Interval time.Duration
	// Silent suppresses warnings and prompt text.
	Silent bool
}

// Session watches a fixed resource list for content changes. Local resources
// are covered by filesystem notifications, remote resources by one recurring
// poll timer. Both mechanisms publish candidate identifiers onto a single
// ordered queue consumed serially, so only one confirmation prompt can be
// outstanding at a time.
type Session struct {
	resources []resolver.Resource
	fetch     fetcher.Fetcher
	store     *Store
	gate      *Gate
	opts      Options

	// localByAbs maps absolute file paths to resource identifiers.
	localByAbs map[string]string

	watcher   *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
}

// NewSession creates a session over an immutable resource list.
func NewSession(cwd string, resources []resolver.Resource, fetch fetcher.Fetcher, store *Store, gate *Gate, opts Options) *Session {
	if opts.Interval < time.Minute {
		opts.Interval = DefaultInterval
	}

	localByAbs := make(map[string]string)
	for _, res := range resources {
		if !res.IsLocal() {
			continue
		}
		abs := res.Identifier
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(cwd, filepath.FromSlash(res.Identifier))
		}
		localByAbs[filepath.Clean(abs)] = res.Identifier
	}

	return &Session{
		resources:  resources,
		fetch:      fetch,
		store:      store,
		gate:       gate,
		opts:       opts,
		localByAbs: localByAbs,
		done:       make(chan struct{}),
	}
}

// Seed fetches every resource once and stores its baseline fingerprint.
// No change event fires during seeding. A fetch failure leaves the
// fingerprint unset: the next successful fetch seeds the baseline instead.
func (s *Session) Seed(ctx context.Context) {
	for _, res := range s.resources {
		content, err := s.fetch.Fetch(ctx, res.Identifier)
		if err != nil {
			s.warn("seeding %s failed: %v", res.Identifier, err)
			continue
		}
		s.store.Seed(res.Identifier, Fingerprint(content))
	}
}

// Run arms both monitoring strategies and consumes change candidates until
// the operator exits or ctx is cancelled. On a confirmed change it invokes
// rerun. Returns ErrExit when the operator chose to exit.
func (s *Session) Run(ctx context.Context, rerun RunFunc) error {
	defer s.Close()

	candidates := make(chan string, 64)

	if len(s.localByAbs) > 0 {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		s.watcher = watcher

		for _, dir := range s.watchDirs() {
			if err := watcher.Add(dir); err != nil {
				s.warn("cannot watch %s: %v", dir, err)
			}
		}

		go s.localLoop(ctx, candidates)
	}

	if s.hasRemote() {
		go s.remoteLoop(ctx, candidates)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case identifier := <-candidates:
			decision := s.evaluate(ctx, identifier)
			switch decision {
			case DecisionRerun:
				if err := rerun(); err != nil {
					s.warn("re-run failed: %v", err)
				}
			case DecisionExit:
				return ErrExit
			}
		}
	}
}

// Close releases local subscriptions and stops the remote timer.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.watcher != nil {
			_ = s.watcher.Close()
		}
	})
}

// evaluate re-fetches one resource and runs the gate when it changed.
func (s *Session) evaluate(ctx context.Context, identifier string) Decision {
	content, err := s.fetch.Fetch(ctx, identifier)
	if err != nil {
		s.warn("fetching %s failed: %v", identifier, err)
		return DecisionSkip
	}

	if !s.store.Changed(identifier, Fingerprint(content)) {
		return DecisionSkip
	}

	return s.gate.Confirm([]string{identifier})
}

// localLoop forwards filesystem events for watched files as candidates.
func (s *Session) localLoop(ctx context.Context, candidates chan<- string) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			identifier, watched := s.localByAbs[filepath.Clean(event.Name)]
			if !watched {
				continue
			}
			select {
			case candidates <- identifier:
			case <-ctx.Done():
				return
			case <-s.done:
				return
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.warn("watch error: %v", err)
		}
	}
}

// remoteLoop queues every URL resource for evaluation on each tick.
func (s *Session) remoteLoop(ctx context.Context, candidates chan<- string) {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			for _, res := range s.resources {
				if res.IsLocal() {
					continue
				}
				select {
				case candidates <- res.Identifier:
				case <-ctx.Done():
					return
				case <-s.done:
					return
				}
			}
		}
	}
}

// watchDirs returns the deduplicated parent directories of local resources.
// fsnotify subscriptions are directory-granular, which also survives
// editors that replace files on save.
func (s *Session) watchDirs() []string {
	seen := make(map[string]struct{})
	var dirs []string
	for abs := range s.localByAbs {
		dir := filepath.Dir(abs)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	return dirs
}

func (s *Session) hasRemote() bool {
	for _, res := range s.resources {
		if !res.IsLocal() {
			return true
		}
	}
	return false
}

func (s *Session) warn(format string, args ...any) {
	if s.opts.Silent {
		return
	}
	pterm.Warning.Printfln(format, args...)
}
