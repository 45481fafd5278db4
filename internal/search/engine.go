// Package search implements ranked fuzzy retrieval over the path
// index: query tokenization, synonym expansion, two-phase candidate
// retrieval and Ratcliff/Obershelp scoring.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"centrefind/internal/config"
	cferrors "centrefind/internal/errors"
	"centrefind/internal/scanner"
	"centrefind/internal/store"
)

// ProgressEvent reports rebuild progress to a callback.
type ProgressEvent struct {
	// Indexed is the cumulative number of paths written so far.
	Indexed int
}

// ProgressFunc receives progress events during a rebuild. It is
// called from the rebuild goroutine; callbacks must be fast.
type ProgressFunc func(ProgressEvent)

// RebuildStats summarizes a completed rebuild.
type RebuildStats struct {
	Indexed int           `json:"indexed"`
	Roots   []string      `json:"roots"`
	Skipped []string      `json:"skipped,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// Engine ties the store, scanner and scorer together behind the
// three public operations: Rebuild, Count and Query.
type Engine struct {
	store    *store.Store
	scan     *scanner.Scanner
	expander *Expander
	scorer   *scorer

	defaultLimit        int
	candidateMultiplier int
	candidateFloor      int
	batchSize           int

	lock  *indexLock
	cache *lru.Cache[string, []Result]
}

// New builds an engine over an open store. A nil config uses the
// defaults.
func New(st *store.Store, cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	cacheSize := cfg.Search.CacheSize
	if cacheSize <= 0 {
		cacheSize = 256
	}
	cache, _ := lru.New[string, []Result](cacheSize)

	e := &Engine{
		store:               st,
		scan:                scanner.New(),
		expander:            NewExpander(cfg.Search.Synonyms),
		scorer:              &scorer{weights: WeightsFromConfig(cfg.Search)},
		defaultLimit:        cfg.Search.DefaultLimit,
		candidateMultiplier: cfg.Search.CandidateMultiplier,
		candidateFloor:      cfg.Search.CandidateFloor,
		batchSize:           cfg.Index.BatchSize,
		cache:               cache,
	}
	if e.defaultLimit <= 0 {
		e.defaultLimit = 20
	}
	if e.batchSize <= 0 {
		e.batchSize = 5000
	}

	// In-memory stores have no file to lock.
	if st.Path() != "" {
		e.lock = newIndexLock(st.Path())
	}
	return e
}

// Mode reports how the underlying store serves candidate retrieval.
func (e *Engine) Mode() store.Mode {
	return e.store.Mode()
}

// Count returns the number of indexed paths.
func (e *Engine) Count(ctx context.Context) (int, error) {
	return e.store.Count(ctx)
}

// Rebuild replaces the whole index with a fresh walk of the targets.
// Unusable targets and missing roots are skipped with a warning, not
// an error; a second concurrent rebuild is refused. An empty target
// list yields an empty index.
func (e *Engine) Rebuild(ctx context.Context, targets []string, progress ProgressFunc) (*RebuildStats, error) {
	start := time.Now()

	if e.lock != nil {
		acquired, err := e.lock.TryLock()
		if err != nil {
			return nil, err
		}
		if !acquired {
			return nil, cferrors.New(cferrors.ErrCodeRebuildLocked, "another rebuild is already running")
		}
		defer func() { _ = e.lock.Unlock() }()
	}

	roots, skipped := scanner.NormalizeTargets(targets)
	for _, s := range skipped {
		slog.Warn("target_skipped", slog.String("target", s))
	}

	if err := e.store.Clear(ctx); err != nil {
		return nil, err
	}
	e.cache.Purge()

	out := make(chan string, e.batchSize)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(out)
		for _, root := range roots {
			slog.Info("scan_root", slog.String("root", root))
			if err := e.scan.Walk(gctx, root, out); err != nil {
				if cferrors.CodeOf(err) == cferrors.ErrCodeRootNotFound {
					slog.Warn("root_missing", slog.String("root", root))
					continue
				}
				return err
			}
		}
		return nil
	})

	var indexed int
	g.Go(func() error {
		batch := make([]string, 0, e.batchSize)
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			n, err := e.store.InsertBatch(gctx, batch)
			if err != nil {
				return err
			}
			indexed += n
			batch = batch[:0]
			if progress != nil {
				progress(ProgressEvent{Indexed: indexed})
			}
			return nil
		}

		for p := range out {
			batch = append(batch, p)
			if len(batch) >= e.batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		return flush()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &RebuildStats{
		Indexed: indexed,
		Roots:   roots,
		Skipped: skipped,
		Elapsed: time.Since(start),
	}
	slog.Info("rebuild_complete",
		slog.Int("indexed", stats.Indexed),
		slog.Int("roots", len(stats.Roots)),
		slog.Duration("elapsed", stats.Elapsed))
	return stats, nil
}

// Query runs a ranked fuzzy search. An empty or whitespace-only query
// returns no results; limit <= 0 falls back to the default.
//
// Retrieval is two-phase: a strict scan requiring every term as a
// substring, then, if that undershoots the limit, a loosened scan
// over synonyms and three-character prefixes. Candidates are scored
// and returned best-first, shorter paths breaking ties.
func (e *Engine) Query(ctx context.Context, text string, limit int) ([]Result, error) {
	terms := Tokenize(text)
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = e.defaultLimit
	}

	key := fmt.Sprintf("%d|%s", limit, strings.Join(terms, " "))
	if cached, ok := e.cache.Get(key); ok {
		return cached, nil
	}

	candidateMax := limit * e.candidateMultiplier
	if candidateMax < e.candidateFloor {
		candidateMax = e.candidateFloor
	}

	candidates, err := e.store.CandidatesAll(ctx, terms, candidateMax)
	if err != nil {
		return nil, err
	}

	expanded := e.expander.Expand(terms)

	// Loosen only when the strict pass came up short.
	if len(candidates) < limit {
		needles := e.expander.LikeNeedles(expanded)
		extra, err := e.store.CandidatesAny(ctx, needles, candidateMax)
		if err != nil {
			return nil, err
		}

		seen := make(map[string]struct{}, len(candidates))
		for _, p := range candidates {
			seen[p] = struct{}{}
		}
		for _, p := range extra {
			if _, dup := seen[p]; !dup {
				seen[p] = struct{}{}
				candidates = append(candidates, p)
			}
		}
	}

	results := make([]Result, 0, len(candidates))
	for _, p := range candidates {
		results = append(results, Result{
			Path:  p,
			Score: e.scorer.score(p, terms, expanded),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if len(results[i].Path) != len(results[j].Path) {
			return len(results[i].Path) < len(results[j].Path)
		}
		return results[i].Path < results[j].Path
	})

	if len(results) > limit {
		results = results[:limit]
	}

	e.cache.Add(key, results)
	return results, nil
}
