package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/heartmarshall/wenyan-gloss/internal/config"
	"github.com/heartmarshall/wenyan-gloss/internal/corpus"
	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

// LoadCorpus opens every configured note stream and loads them into one
// corpus. Files are read in kind order: textbook, dataset, query.
func LoadCorpus(ctx context.Context, cfg config.CorpusConfig, weights domain.FreqWeights) (*corpus.Corpus, error) {
	var (
		sources []corpus.Source
		closers []io.Closer
	)
	defer func() {
		for _, c := range closers {
			c.Close() //nolint:errcheck
		}
	}()

	add := func(kind domain.CorpusKind, paths []string) error {
		for _, p := range paths {
			f, err := os.Open(p)
			if err != nil {
				return fmt.Errorf("open %s notes: %w", kind, err)
			}
			closers = append(closers, f)
			sources = append(sources, corpus.Source{Kind: kind, Name: p, Reader: f})
		}
		return nil
	}

	if err := add(domain.CorpusTextbook, cfg.TextbookNotes); err != nil {
		return nil, err
	}
	if err := add(domain.CorpusDataset, cfg.DatasetNotes); err != nil {
		return nil, err
	}
	if err := add(domain.CorpusQuery, cfg.QueryNotes); err != nil {
		return nil, err
	}

	return corpus.Load(ctx, weights, sources...)
}
