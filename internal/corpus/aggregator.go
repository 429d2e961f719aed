package corpus

import (
	"slices"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

// Aggregator groups notes by their exact original text and counts them per
// corpus kind. It is not safe for concurrent writes; build it once and then
// only read from it.
type Aggregator struct {
	weights domain.FreqWeights
	order   []string
	groups  map[string]*group
}

type group struct {
	info  domain.FreqInfo
	kinds []domain.CorpusKind
}

// NewAggregator creates an empty Aggregator ranking with the given weights.
func NewAggregator(weights domain.FreqWeights) *Aggregator {
	return &Aggregator{
		weights: weights,
		groups:  make(map[string]*group),
	}
}

// Add counts one note of the given kind. Notes with an empty original text
// or an unknown kind are ignored; Add reports whether the note was counted.
func (a *Aggregator) Add(kind domain.CorpusKind, n domain.Note) bool {
	word := n.OriginalText()
	if word == "" || !kind.IsValid() {
		return false
	}

	g := a.group(word)
	switch kind {
	case domain.CorpusTextbook:
		g.info.TextbookFreq++
	case domain.CorpusDataset:
		g.info.DatasetFreq++
	case domain.CorpusQuery:
		g.info.QueryFreq++
	}
	g.info.Notes = append(g.info.Notes, n)
	g.kinds = append(g.kinds, kind)
	return true
}

// AddQuery counts one live query of word that carries no note.
func (a *Aggregator) AddQuery(word string) bool {
	if word == "" {
		return false
	}
	a.group(word).info.QueryFreq++
	return true
}

func (a *Aggregator) group(word string) *group {
	g, ok := a.groups[word]
	if !ok {
		g = &group{info: domain.FreqInfo{Word: word, Notes: []domain.Note{}}}
		a.groups[word] = g
		a.order = append(a.order, word)
	}
	return g
}

// Get returns the aggregated record of word. The notes slice is shared with
// the aggregator but clipped, so appending to it copies.
func (a *Aggregator) Get(word string) (domain.FreqInfo, bool) {
	g, ok := a.groups[word]
	if !ok {
		return domain.FreqInfo{}, false
	}
	return g.snapshot(), true
}

func (g *group) snapshot() domain.FreqInfo {
	info := g.info
	info.Notes = slices.Clip(info.Notes)
	return info
}

// Records returns the notes of word as corpus records tagged with their kind.
func (a *Aggregator) Records(word string) []domain.CorpusRecord {
	g, ok := a.groups[word]
	if !ok {
		return []domain.CorpusRecord{}
	}
	records := make([]domain.CorpusRecord, len(g.info.Notes))
	for i, n := range g.info.Notes {
		records[i] = domain.RecordFromNote(n, g.kinds[i])
	}
	return records
}

// Rank returns every record sorted by descending weighted frequency.
// Equal scores keep first-seen order, which callers must not rely on.
func (a *Aggregator) Rank() []domain.FreqInfo {
	ranked := make([]domain.FreqInfo, 0, len(a.order))
	for _, w := range a.order {
		ranked = append(ranked, a.groups[w].snapshot())
	}
	slices.SortStableFunc(ranked, func(x, y domain.FreqInfo) int {
		return y.TotalFreq(a.weights) - x.TotalFreq(a.weights)
	})
	return ranked
}

// Len returns the number of distinct words.
func (a *Aggregator) Len() int { return len(a.order) }

// Weights returns the ranking weights.
func (a *Aggregator) Weights() domain.FreqWeights { return a.weights }
