// Package listing implements the bounded retry policy for directory
// listings whose population is asynchronous.
//
// The frame extractor creates a cache folder first and then fills it with
// frame files, so a listing issued right after extraction was requested
// can legitimately find the folder missing or empty for a short while.
// The policy absorbs that lag with a fixed number of delayed re-attempts
// and always terminates with a definite success-or-failure result.
package listing

import (
	"context"
	"sort"
	"time"

	"lapse/internal/storage"
)

const (
	// Attempts is the total number of listing calls made before giving up.
	Attempts = 5

	// Delay is the fixed wait between consecutive attempts.
	Delay = 500 * time.Millisecond
)

// Policy wraps a storage.Store with the retry behaviour. The zero value
// is not usable; construct with NewPolicy.
type Policy struct {
	store    storage.Store
	attempts int
	delay    time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewPolicy creates a Policy with the standard attempt budget.
func NewPolicy(store storage.Store) *Policy {
	return &Policy{
		store:    store,
		attempts: Attempts,
		delay:    Delay,
		sleep:    sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Files lists the file entries of path, sorted ascending by name.
//
// Failed attempts are always retried after the fixed delay until the
// attempt budget runs out; only the last error is surfaced. When
// cachePath is true a successful empty listing is also retried, because
// the folder may still be filling up — but an empty result is a valid
// success, so after the budget is exhausted an observed empty listing is
// returned as such rather than promoted to an error. Non-cache paths
// accept their first successful result unconditionally.
func (p *Policy) Files(ctx context.Context, path string, cachePath bool) ([]string, error) {
	var lastErr error
	sawEmpty := false

	for attempt := 1; attempt <= p.attempts; attempt++ {
		entries, err := p.store.List(ctx, path)
		if err == nil {
			names := fileNames(entries)
			if len(names) > 0 || !cachePath {
				return names, nil
			}
			sawEmpty = true
		} else {
			lastErr = err
		}

		if attempt == p.attempts {
			break
		}
		if err := p.sleep(ctx, p.delay); err != nil {
			return nil, err
		}
	}

	if sawEmpty {
		return []string{}, nil
	}
	return nil, lastErr
}

// fileNames filters a listing down to file entries and sorts the names.
func fileNames(entries []storage.Entry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Kind == storage.KindFile {
			names = append(names, e.Name)
		}
	}
	sort.Strings(names)
	return names
}
