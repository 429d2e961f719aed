package corpus

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

// maxLineSize is the buffer size for bufio.Scanner (16 MB).
const maxLineSize = 16 * 1024 * 1024

// Writer writes one JSON object per line, UTF-8 without HTML escaping.
type Writer struct {
	enc *json.Encoder
	n   int
}

// NewWriter creates a JSON-Lines Writer on w.
func NewWriter(w io.Writer) *Writer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Writer{enc: enc}
}

// Write encodes v as one line.
func (w *Writer) Write(v any) error {
	if err := w.enc.Encode(v); err != nil {
		return fmt.Errorf("jsonl: write line %d: %w", w.n+1, err)
	}
	w.n++
	return nil
}

// Count returns the number of lines written.
func (w *Writer) Count() int { return w.n }

// scanLines calls fn for every non-blank line with its 1-based number.
func scanLines(r io.Reader, fn func(line int, data []byte) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(bytes.TrimSpace(data)) == 0 {
			continue
		}
		if err := fn(line, data); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error at line %d: %w", line+1, err)
	}
	return nil
}

// noteRecord is the persisted note schema. Pointers tell a missing field
// from an empty one.
type noteRecord struct {
	NamePassage *string      `json:"name_passage"`
	SourceID    *string      `json:"source_id"`
	Context     *string      `json:"context"`
	IndexRange  *domain.Span `json:"index_range"`
	Detail      *string      `json:"detail"`
	CoreDetail  *string      `json:"core_detail"`
}

func (r noteRecord) toNote() (domain.Note, error) {
	source := r.NamePassage
	if source == nil {
		source = r.SourceID
	}
	switch {
	case source == nil:
		return domain.Note{}, fmt.Errorf("missing name_passage")
	case r.Context == nil:
		return domain.Note{}, fmt.Errorf("missing context")
	case r.IndexRange == nil:
		return domain.Note{}, fmt.Errorf("missing index_range")
	case r.Detail == nil:
		return domain.Note{}, fmt.Errorf("missing detail")
	case r.CoreDetail == nil:
		return domain.Note{}, fmt.Errorf("missing core_detail")
	}
	return domain.NewNote(*source, *r.Context, *r.IndexRange, *r.Detail, *r.CoreDetail)
}

func decodeNote(data []byte) (domain.Note, error) {
	var rec noteRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.Note{}, err
	}
	return rec.toNote()
}

// ReadNotes decodes a persisted note stream and calls fn for every note.
// Any malformed line aborts the read with ErrMalformedRecord.
func ReadNotes(r io.Reader, fn func(domain.Note) error) error {
	return scanLines(r, func(line int, data []byte) error {
		n, err := decodeNote(data)
		if err != nil {
			return fmt.Errorf("line %d: %w: %v", line, domain.ErrMalformedRecord, err)
		}
		return fn(n)
	})
}

type freqRecord struct {
	Word         *string           `json:"word"`
	TextbookFreq int               `json:"textbook_freq"`
	DatasetFreq  *int              `json:"dataset_freq"`
	GuwenFreq    *int              `json:"guwen_freq"`
	QueryFreq    int               `json:"query_freq"`
	Notes        []json.RawMessage `json:"notes"`
}

func (r freqRecord) toFreqInfo() (domain.FreqInfo, error) {
	if r.Word == nil || *r.Word == "" {
		return domain.FreqInfo{}, fmt.Errorf("missing word")
	}
	info := domain.FreqInfo{
		Word:         *r.Word,
		TextbookFreq: r.TextbookFreq,
		QueryFreq:    r.QueryFreq,
		Notes:        make([]domain.Note, 0, len(r.Notes)),
	}
	switch {
	case r.DatasetFreq != nil:
		info.DatasetFreq = *r.DatasetFreq
	case r.GuwenFreq != nil:
		info.DatasetFreq = *r.GuwenFreq
	}
	for i, raw := range r.Notes {
		n, err := decodeNote(raw)
		if err != nil {
			return domain.FreqInfo{}, fmt.Errorf("note %d: %w", i, err)
		}
		info.Notes = append(info.Notes, n)
	}
	return info, nil
}

// ReadFreqInfos decodes a ranked frequency stream in file order.
// Any malformed line aborts the read with ErrMalformedRecord.
func ReadFreqInfos(r io.Reader, fn func(domain.FreqInfo) error) error {
	return scanLines(r, func(line int, data []byte) error {
		var rec freqRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("line %d: %w: %v", line, domain.ErrMalformedRecord, err)
		}
		info, err := rec.toFreqInfo()
		if err != nil {
			return fmt.Errorf("line %d: %w: %v", line, domain.ErrMalformedRecord, err)
		}
		return fn(info)
	})
}

// ReadPassages decodes a textbook passage stream.
func ReadPassages(r io.Reader, fn func(domain.Passage) error) error {
	return scanLines(r, func(line int, data []byte) error {
		var p domain.Passage
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("line %d: %w: %v", line, domain.ErrMalformedRecord, err)
		}
		return fn(p)
	})
}

// ReadRemarkPassages decodes a dataset passage stream. Passages without a
// remark carry no glosses and are skipped.
func ReadRemarkPassages(r io.Reader, fn func(domain.RemarkPassage) error) error {
	return scanLines(r, func(line int, data []byte) error {
		var p domain.RemarkPassage
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("line %d: %w: %v", line, domain.ErrMalformedRecord, err)
		}
		if p.Remark == "" {
			return nil
		}
		return fn(p)
	})
}
