package domain

import (
	"time"

	"github.com/google/uuid"
)

// CorpusKind identifies where an occurrence of a word was seen.
type CorpusKind string

const (
	CorpusTextbook CorpusKind = "textbook"
	CorpusDataset  CorpusKind = "dataset"
	CorpusQuery    CorpusKind = "query"
)

// IsValid reports whether k is a known corpus kind.
func (k CorpusKind) IsValid() bool {
	switch k {
	case CorpusTextbook, CorpusDataset, CorpusQuery:
		return true
	}
	return false
}

// Default ranking weights. Textbook occurrences weigh the most, live queries
// second, the bulk dataset the least.
const (
	DefaultTextbookWeight = 3
	DefaultDatasetWeight  = 1
	DefaultQueryWeight    = 2
)

// FreqWeights holds the multipliers of the weighted frequency score.
type FreqWeights struct {
	Textbook int
	Dataset  int
	Query    int
}

// DefaultFreqWeights returns the default ranking weights.
func DefaultFreqWeights() FreqWeights {
	return FreqWeights{
		Textbook: DefaultTextbookWeight,
		Dataset:  DefaultDatasetWeight,
		Query:    DefaultQueryWeight,
	}
}

// FreqInfo aggregates every note annotating one exact word.
type FreqInfo struct {
	Word         string `json:"word"`
	TextbookFreq int    `json:"textbook_freq"`
	DatasetFreq  int    `json:"dataset_freq"`
	QueryFreq    int    `json:"query_freq"`
	Notes        []Note `json:"notes"`
}

// TotalFreq returns the weighted popularity score used for ranking.
func (f FreqInfo) TotalFreq(w FreqWeights) int {
	return w.Textbook*f.TextbookFreq + w.Dataset*f.DatasetFreq + w.Query*f.QueryFreq
}

// CorpusStat is the persisted per-word counter row.
type CorpusStat struct {
	Word         string
	FreqTextbook int
	FreqDataset  int
	FreqQuery    int
	UpdatedAt    time.Time
}

// TotalFreq returns the weighted popularity score of the stat row.
func (s CorpusStat) TotalFreq(w FreqWeights) int {
	return w.Textbook*s.FreqTextbook + w.Dataset*s.FreqDataset + w.Query*s.FreqQuery
}

// QueryRecord is one live end-user query stored for later corpus rebuilds.
type QueryRecord struct {
	ID        uuid.UUID
	Word      string
	Context   string
	Answer    string
	CreatedAt time.Time
}

// CorpusRecord is one usage example of a word shown in the frequency detail.
type CorpusRecord struct {
	Query     string
	QueryUser string
	Kind      CorpusKind
	Context   string
	Answer    string
}

// RecordFromNote converts a note into a corpus record of the given kind.
func RecordFromNote(n Note, kind CorpusKind) CorpusRecord {
	return CorpusRecord{
		Query:   n.OriginalText(),
		Kind:    kind,
		Context: n.Context,
		Answer:  n.CoreDetail,
	}
}

// RecordFromQuery converts a live query into a corpus record.
func RecordFromQuery(q QueryRecord) CorpusRecord {
	return CorpusRecord{
		Query:     q.Word,
		QueryUser: q.Word,
		Kind:      CorpusQuery,
		Context:   q.Context,
		Answer:    q.Answer,
	}
}

// Definition is a dictionary entry scraped from the reference site.
type Definition struct {
	Word     string
	Basic    []string
	Detailed []string
	Phrases  []string
	Cached   bool
}

// IsEmpty reports whether the definition has no explanation at all.
func (d Definition) IsEmpty() bool {
	return len(d.Basic) == 0 && len(d.Detailed) == 0 && len(d.Phrases) == 0
}
