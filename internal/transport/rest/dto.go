package rest

import (
	"time"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
	"github.com/heartmarshall/wenyan-gloss/internal/service/glossary"
)

type recordQueryRequest struct {
	Word    string `json:"word"`
	Context string `json:"context"`
	Answer  string `json:"answer"`
}

type queryRecordResponse struct {
	ID        string    `json:"id"`
	Word      string    `json:"word"`
	Context   string    `json:"context"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

type statResponse struct {
	Query        string `json:"query"`
	FreqTextbook int    `json:"freqTextbook"`
	FreqDataset  int    `json:"freqDataset"`
	FreqQuery    int    `json:"freqQuery"`
}

type corpusItemResponse struct {
	Query     string  `json:"query"`
	QueryUser *string `json:"queryUser"`
	Type      string  `json:"type"`
	Context   string  `json:"context"`
	Answer    string  `json:"answer"`
}

type freqResponse struct {
	Stat       statResponse         `json:"stat"`
	Notes      []corpusItemResponse `json:"notes"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"total_pages"`
}

type zdicResponse struct {
	BasicExplanations    []string `json:"basic_explanations"`
	DetailedExplanations []string `json:"detailed_explanations"`
	PhraseExplanations   []string `json:"phrase_explanations"`
	Cached               bool     `json:"cached"`
}

type streamItemResponse struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func toQueryRecordResponse(q domain.QueryRecord) queryRecordResponse {
	return queryRecordResponse{
		ID:        q.ID.String(),
		Word:      q.Word,
		Context:   q.Context,
		Answer:    q.Answer,
		CreatedAt: q.CreatedAt,
	}
}

func toFreqResponse(d *glossary.FreqDetail) freqResponse {
	notes := make([]corpusItemResponse, len(d.Records))
	for i, r := range d.Records {
		item := corpusItemResponse{
			Query:   r.Query,
			Type:    string(r.Kind),
			Context: r.Context,
			Answer:  r.Answer,
		}
		if r.QueryUser != "" {
			user := r.QueryUser
			item.QueryUser = &user
		}
		notes[i] = item
	}
	return freqResponse{
		Stat: statResponse{
			Query:        d.Stat.Word,
			FreqTextbook: d.Stat.FreqTextbook,
			FreqDataset:  d.Stat.FreqDataset,
			FreqQuery:    d.Stat.FreqQuery,
		},
		Notes:      notes,
		Page:       d.Page,
		TotalPages: d.TotalPages,
	}
}

func toZdicResponse(d domain.Definition) zdicResponse {
	return zdicResponse{
		BasicExplanations:    nonNil(d.Basic),
		DetailedExplanations: nonNil(d.Detailed),
		PhraseExplanations:   nonNil(d.Phrases),
		Cached:               d.Cached,
	}
}

func toStreamItemResponse(it glossary.StreamItem) streamItemResponse {
	resp := streamItemResponse{Type: string(it.Type)}
	switch it.Type {
	case glossary.ItemFreq:
		resp.Data = toFreqResponse(it.Freq)
	case glossary.ItemZdic:
		resp.Data = toZdicResponse(*it.Definition)
	case glossary.ItemSearchOriginal:
		resp.Data = nonNilNotes(it.Originals)
	}
	return resp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilNotes(n []domain.Note) []domain.Note {
	if n == nil {
		return []domain.Note{}
	}
	return n
}
