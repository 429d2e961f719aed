package gloss

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

var errNoHeadword = errors.New("footnote has no bracketed headword")

// Extractor turns passages into notes. It is safe for concurrent use.
type Extractor struct {
	log      *slog.Logger
	textbook ClauseBudget
	remark   ClauseBudget
}

// NewExtractor creates an Extractor. textbook is the context budget for
// bracketed footnotes, remark the one for colon-form remarks.
func NewExtractor(logger *slog.Logger, textbook, remark ClauseBudget) *Extractor {
	return &Extractor{
		log:      logger.With("component", "extractor"),
		textbook: textbook,
		remark:   remark,
	}
}

// ExtractPassage extracts the notes of a textbook passage. Each primary note
// is followed by its sub-notes. Footnotes that cannot be resolved are logged
// and skipped.
func (e *Extractor) ExtractPassage(p domain.Passage) []domain.Note {
	content := []rune(p.Content)
	source := sourceID(p.Title)

	var notes []domain.Note
	for _, fn := range p.Notes {
		draft, err := e.footnoteDraft(p.Title, source, content, fn)
		if err != nil {
			e.log.Warn("skip footnote",
				slog.String("title", p.Title),
				slog.Int("offset", fn.Offset),
				slog.String("error", err.Error()),
			)
			continue
		}
		notes = e.appendDraft(notes, draft, p.Title, fn.Offset)
	}
	return notes
}

// ExtractRemark extracts the notes of a dataset passage from its colon-form remark.
func (e *Extractor) ExtractRemark(p domain.RemarkPassage) []domain.Note {
	content := []rune(p.Content)
	source := sourceID(p.Title)

	var notes []domain.Note
	for _, g := range ParseRemark(domain.NormalizeRemark(p.Remark)) {
		at := strings.Index(p.Content, g.Headword)
		if at < 0 {
			e.log.Debug("remark headword not in content",
				slog.String("title", p.Title),
				slog.String("headword", g.Headword),
			)
			continue
		}
		start := utf8.RuneCountInString(p.Content[:at])
		span := domain.Span{Start: start, End: start + utf8.RuneCountInString(g.Headword)}

		context, rel := ContextWindow(content, span, e.remark)
		draft := domain.NoteDraft{
			SourceID:   source,
			Context:    context,
			Span:       rel,
			FullDetail: g.Detail,
		}
		notes = e.appendDraft(notes, draft, p.Title, start)
	}
	return notes
}

// footnoteDraft resolves one footnote to a draft.
// A footnote anchored at offset 0 annotates the title.
func (e *Extractor) footnoteDraft(title, source string, content []rune, fn domain.FootnoteRef) (domain.NoteDraft, error) {
	text := strings.TrimSpace(fn.Text)
	if text == "" {
		return domain.NoteDraft{}, fmt.Errorf("empty footnote: %w", domain.ErrDegenerateNote)
	}

	headword, detail, bracketed := ParseBracketed(text)

	if fn.Offset == 0 {
		span := domain.Span{Start: 0, End: utf8.RuneCountInString(title)}
		if bracketed {
			span = titleSpan(title, headword)
		} else {
			detail = text
		}
		return domain.NoteDraft{SourceID: source, Context: title, Span: span, FullDetail: detail}, nil
	}

	if !bracketed {
		return domain.NoteDraft{}, fmt.Errorf("%w: %w", errNoHeadword, domain.ErrUnresolvableSpan)
	}

	span, matched, err := LocateSpan(content, fn.Offset, headword)
	if err != nil {
		return domain.NoteDraft{}, err
	}
	if n := utf8.RuneCountInString(headword); matched < n {
		e.log.Debug("partial headword match",
			slog.String("title", title),
			slog.Int("offset", fn.Offset),
			slog.String("headword", headword),
			slog.Int("matched", matched),
		)
	}

	context, rel := ContextWindow(content, span, e.textbook)
	return domain.NoteDraft{SourceID: source, Context: context, Span: rel, FullDetail: detail}, nil
}

// appendDraft finalizes a draft and appends it with its sub-notes.
func (e *Extractor) appendDraft(notes []domain.Note, draft domain.NoteDraft, title string, offset int) []domain.Note {
	primary, subs, rejects := ExtractSubNotes(draft)
	for _, err := range rejects {
		e.log.Warn("skip sub-note",
			slog.String("title", title),
			slog.Int("offset", offset),
			slog.String("error", err.Error()),
		)
	}

	note, err := primary.Note()
	if err != nil {
		e.log.Warn("skip note",
			slog.String("title", title),
			slog.Int("offset", offset),
			slog.String("error", err.Error()),
		)
		return notes
	}
	notes = append(notes, note)
	return append(notes, subs...)
}

// NoteFromQuery builds a note from a question-answer record where query is a
// word of context, as found in model test transcripts and live queries.
func NoteFromQuery(context, query, answer string) (domain.Note, error) {
	query = domain.NormalizeQuery(query)
	if query == "" {
		return domain.Note{}, fmt.Errorf("empty query: %w", domain.ErrDegenerateNote)
	}
	at := strings.Index(context, query)
	if at < 0 {
		return domain.Note{}, fmt.Errorf("query %q not in context: %w", query, domain.ErrUnresolvableSpan)
	}
	start := utf8.RuneCountInString(context[:at])
	span := domain.Span{Start: start, End: start + utf8.RuneCountInString(query)}
	answer = strings.TrimSpace(answer)
	return domain.NewNote("", context, span, answer, answer)
}

// titleSpan locates headword inside the title. When it is not there the span
// covers the title prefix of the headword's length.
func titleSpan(title, headword string) domain.Span {
	if at := strings.Index(title, headword); at >= 0 {
		start := utf8.RuneCountInString(title[:at])
		return domain.Span{Start: start, End: start + utf8.RuneCountInString(headword)}
	}
	return domain.Span{Start: 0, End: min(utf8.RuneCountInString(headword), utf8.RuneCountInString(title))}
}

func sourceID(title string) string {
	return strings.ReplaceAll(title, " ", "")
}
