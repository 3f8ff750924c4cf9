package dataset

import (
	"context"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"agricast/internal/logger"
)

// Bundle is one immutable load of all source datasets. Once returned from
// the Store it is never mutated, so readers need no locking.
type Bundle struct {
	History  []PriceRecord  // full historical series, target counties only
	Recent   []PriceRecord  // recent-window series, target counties only
	Template []TemplatePair // submission slots; nil when no template file exists
	LoadedAt time.Time
}

// Store loads the static datasets once per session and caches the result
// for the process lifetime. The cache is invalidated only by an explicit
// Reload; there is no TTL. A singleflight.Group collapses concurrent
// reload requests into one file pass.
type Store struct {
	historyPath  string
	recentPath   string
	templatePath string
	counties     []string

	group singleflight.Group

	mu  sync.RWMutex
	cur *Bundle
}

// NewStore creates a Store for the given file paths and target counties.
// Nothing is read until Load is called.
func NewStore(historyPath, recentPath, templatePath string, counties []string) *Store {
	return &Store{
		historyPath:  historyPath,
		recentPath:   recentPath,
		templatePath: templatePath,
		counties:     counties,
	}
}

// Load reads all source files and caches the bundle. History and the
// recent window load concurrently; either failing fails the load. The
// submission template is optional: a missing file logs a warning and
// leaves Template nil.
func (s *Store) Load(ctx context.Context) (*Bundle, error) {
	return s.reload(ctx)
}

// Reload re-reads the source files and swaps the cached bundle. This is
// the only cache invalidation path.
func (s *Store) Reload(ctx context.Context) (*Bundle, error) {
	return s.reload(ctx)
}

func (s *Store) reload(ctx context.Context) (*Bundle, error) {
	v, err, _ := s.group.Do("reload", func() (interface{}, error) {
		b := &Bundle{LoadedAt: time.Now()}

		g, _ := errgroup.WithContext(ctx)
		g.Go(func() error {
			records, err := LoadPrices(s.historyPath, s.counties)
			if err != nil {
				return err
			}
			b.History = records
			return nil
		})
		g.Go(func() error {
			records, err := LoadPrices(s.recentPath, s.counties)
			if err != nil {
				return err
			}
			b.Recent = records
			return nil
		})
		g.Go(func() error {
			if _, err := os.Stat(s.templatePath); os.IsNotExist(err) {
				logger.Warn("DATA", "no submission template at "+s.templatePath+", submission export disabled")
				return nil
			}
			pairs, err := LoadTemplate(s.templatePath)
			if err != nil {
				return err
			}
			b.Template = pairs
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.cur = b
		s.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Bundle), nil
}

// Snapshot returns the current bundle, or nil before the first successful
// Load.
func (s *Store) Snapshot() *Bundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}
