package glossary

import (
	"unicode/utf8"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

const (
	maxWordLen    = 32
	maxContextLen = 2000
	maxAnswerLen  = 5000
)

// RecordQueryInput holds one live query to count and store.
type RecordQueryInput struct {
	Word    string
	Context string
	Answer  string
}

// Validate checks all fields and collects all errors.
func (i *RecordQueryInput) Validate() error {
	var errs []domain.FieldError

	if i.Word == "" {
		errs = append(errs, domain.FieldError{Field: "word", Message: "required"})
	} else if utf8.RuneCountInString(i.Word) > maxWordLen {
		errs = append(errs, domain.FieldError{Field: "word", Message: "too long (max 32)"})
	}
	if utf8.RuneCountInString(i.Context) > maxContextLen {
		errs = append(errs, domain.FieldError{Field: "context", Message: "too long (max 2000)"})
	}
	if utf8.RuneCountInString(i.Answer) > maxAnswerLen {
		errs = append(errs, domain.FieldError{Field: "answer", Message: "too long (max 5000)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// StreamInput holds the parameters of a streamed gloss response.
type StreamInput struct {
	Context string
	Query   string
}

// Validate checks all fields and collects all errors.
func (i *StreamInput) Validate() error {
	var errs []domain.FieldError

	if i.Query == "" {
		errs = append(errs, domain.FieldError{Field: "query", Message: "required"})
	} else if utf8.RuneCountInString(i.Query) > maxWordLen {
		errs = append(errs, domain.FieldError{Field: "query", Message: "too long (max 32)"})
	}
	if utf8.RuneCountInString(i.Context) > maxContextLen {
		errs = append(errs, domain.FieldError{Field: "context", Message: "too long (max 2000)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
