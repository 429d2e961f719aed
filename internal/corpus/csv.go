package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

// QARecord is one row of a model-test sheet: a context, the asked word and
// the reference answer.
type QARecord struct {
	Context string
	Query   string
	Answer  string
}

var qaColumns = []string{"context", "query", "answer"}

// ReadQARecords reads a CSV sheet with a context,query,answer header.
// Column order follows the header; extra columns are ignored.
func ReadQARecords(r io.Reader, fn func(QARecord) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("csv: read header: %w", err)
	}

	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	idx := make([]int, len(qaColumns))
	for i, col := range qaColumns {
		p, ok := pos[col]
		if !ok {
			return fmt.Errorf("csv: header: missing column %q: %w", col, domain.ErrMalformedRecord)
		}
		idx[i] = p
	}

	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("csv: line %d: %w: %v", line, domain.ErrMalformedRecord, err)
		}

		field := func(i int) string {
			if idx[i] >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx[i]])
		}
		rec := QARecord{Context: field(0), Query: field(1), Answer: field(2)}
		if err := fn(rec); err != nil {
			return err
		}
	}
}
