package store

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// bleveAccelerator mirrors the paths table into a bleve index
// directory beside the database. The standard analyzer tokenizes on
// separators and lowercases, so path segments become index terms.
type bleveAccelerator struct {
	path  string
	index bleve.Index
}

// bleveDoc is the document shape mirrored per path. The path itself is
// the document ID, so hits come back without stored fields.
type bleveDoc struct {
	Path string `json:"path"`
}

func bleveMapping() *mapping.IndexMappingImpl {
	return bleve.NewIndexMapping()
}

// newBleveAccelerator opens or creates the bleve mirror at path.
func newBleveAccelerator(path string) (*bleveAccelerator, error) {
	if path == "" {
		return nil, fmt.Errorf("bleve accelerator requires a path")
	}

	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, bleveMapping())
	} else if err != nil {
		// Any other open failure is treated as a stale or corrupt
		// mirror: clear and recreate. The primary table is the source
		// of truth; the mirror is rebuilt on the next rebuild anyway.
		if removeErr := os.RemoveAll(path); removeErr != nil {
			return nil, fmt.Errorf("bleve mirror unusable and cannot remove: %w (original: %v)", removeErr, err)
		}
		idx, err = bleve.New(path, bleveMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open bleve mirror: %w", err)
	}

	return &bleveAccelerator{path: path, index: idx}, nil
}

var _ Accelerator = (*bleveAccelerator)(nil)

func (a *bleveAccelerator) Mode() Mode {
	return ModeBleve
}

// Reset deletes the index directory and recreates it empty.
func (a *bleveAccelerator) Reset(ctx context.Context) error {
	if a.index != nil {
		if err := a.index.Close(); err != nil {
			return fmt.Errorf("failed to close bleve mirror: %w", err)
		}
	}
	if err := os.RemoveAll(a.path); err != nil {
		return fmt.Errorf("failed to remove bleve mirror: %w", err)
	}

	idx, err := bleve.New(a.path, bleveMapping())
	if err != nil {
		return fmt.Errorf("failed to recreate bleve mirror: %w", err)
	}
	a.index = idx
	return nil
}

// Add mirrors a batch of freshly inserted paths.
func (a *bleveAccelerator) Add(ctx context.Context, paths []string) error {
	batch := a.index.NewBatch()
	for _, p := range paths {
		if err := batch.Index(p, bleveDoc{Path: p}); err != nil {
			return fmt.Errorf("failed to batch %s: %w", p, err)
		}
	}
	if err := a.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to execute bleve batch: %w", err)
	}
	return nil
}

// Candidates returns paths with a token starting with any term, via a
// disjunction of prefix queries.
func (a *bleveAccelerator) Candidates(ctx context.Context, terms []string, max int) ([]string, error) {
	if len(terms) == 0 || max <= 0 {
		return nil, nil
	}

	queries := make([]query.Query, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		pq := bleve.NewPrefixQuery(t)
		pq.SetField("path")
		queries = append(queries, pq)
	}
	if len(queries) == 0 {
		return nil, nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(queries...), max, 0, false)
	res, err := a.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve candidates failed: %w", err)
	}

	paths := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		paths = append(paths, hit.ID)
	}
	return paths, nil
}

func (a *bleveAccelerator) Close() error {
	if a.index == nil {
		return nil
	}
	return a.index.Close()
}
