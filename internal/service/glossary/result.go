package glossary

import "github.com/heartmarshall/wenyan-gloss/internal/domain"

// DefaultPageSize is the number of corpus records on one frequency detail page.
const DefaultPageSize = 30

// FreqDetail is one page of the frequency detail of a word.
type FreqDetail struct {
	Stat       domain.CorpusStat
	Records    []domain.CorpusRecord
	Page       int
	TotalPages int
}

// ItemType tags one item of the gloss stream.
type ItemType string

const (
	ItemFreq           ItemType = "freq"
	ItemZdic           ItemType = "zdic"
	ItemSearchOriginal ItemType = "search-original"
)

// StreamItem is one item of the gloss stream. Exactly one payload field is
// set, matching Type.
type StreamItem struct {
	Type       ItemType
	Freq       *FreqDetail
	Definition *domain.Definition
	Originals  []domain.Note
}
