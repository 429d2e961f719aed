package corpus

import (
	"context"
	"fmt"
	"io"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

// Source is one persisted note stream.
type Source struct {
	Kind   domain.CorpusKind
	Name   string
	Reader io.Reader
}

// Corpus is the read-only in-memory corpus served by the API: the textbook
// index plus the frequency aggregate of every loaded note.
type Corpus struct {
	index *CharIndex
	agg   *Aggregator
	notes []domain.Note
}

// Load reads every source in order. Textbook notes are indexed for browsing;
// notes of every kind are counted. Any malformed record aborts the load.
func Load(ctx context.Context, weights domain.FreqWeights, sources ...Source) (*Corpus, error) {
	agg := NewAggregator(weights)
	var textbook, all []domain.Note

	for _, src := range sources {
		if !src.Kind.IsValid() {
			return nil, fmt.Errorf("load %s: unknown corpus kind %q: %w", src.Name, src.Kind, domain.ErrValidation)
		}
		err := ReadNotes(src.Reader, func(n domain.Note) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			agg.Add(src.Kind, n)
			all = append(all, n)
			if src.Kind == domain.CorpusTextbook {
				textbook = append(textbook, n)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", src.Name, err)
		}
	}

	return &Corpus{
		index: NewCharIndex(textbook),
		agg:   agg,
		notes: all,
	}, nil
}

// Lookup returns the textbook notes whose word contains every rune of q.
func (c *Corpus) Lookup(q string) []domain.Note {
	return c.index.Lookup(domain.NormalizeQuery(q))
}

// Freq returns the aggregated record of an exact word. An unknown word yields
// a zero record with an empty note list.
func (c *Corpus) Freq(word string) domain.FreqInfo {
	if info, ok := c.agg.Get(word); ok {
		return info
	}
	return domain.FreqInfo{Word: word, Notes: []domain.Note{}}
}

// Records returns the loaded notes of an exact word as corpus records.
func (c *Corpus) Records(word string) []domain.CorpusRecord {
	return c.agg.Records(word)
}

// Rank returns every word sorted by descending weighted frequency.
func (c *Corpus) Rank() []domain.FreqInfo { return c.agg.Rank() }

// Weights returns the ranking weights.
func (c *Corpus) Weights() domain.FreqWeights { return c.agg.Weights() }


// Len returns the number of loaded notes.
func (c *Corpus) Len() int { return len(c.notes) }

// Indexed returns the number of notes in the browse index.
func (c *Corpus) Indexed() int { return c.index.Len() }

// Words returns the number of distinct annotated words.
func (c *Corpus) Words() int { return c.agg.Len() }
