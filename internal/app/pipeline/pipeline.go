package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/wenyan-gloss/internal/corpus"
	"github.com/heartmarshall/wenyan-gloss/internal/domain"
	"github.com/heartmarshall/wenyan-gloss/internal/gloss"
)

// Phase names in canonical execution order.
const (
	PhaseTextbook  = "textbook"
	PhaseDataset   = "dataset"
	PhaseCSV       = "csv"
	PhaseFrequency = "frequency"
	PhaseSample    = "sample"
	PhaseSeed      = "seed"
)

var allPhases = []string{PhaseTextbook, PhaseDataset, PhaseCSV, PhaseFrequency, PhaseSample, PhaseSeed}

// AllPhases returns the phase names in execution order.
func AllPhases() []string {
	return append([]string(nil), allPhases...)
}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Inserted int
	Updated  int
	Skipped  int
	Errors   int
	Duration time.Duration
	Err      error
}

// Pipeline orchestrates the offline corpus build.
type Pipeline struct {
	log       *slog.Logger
	repo      StatSeeder
	cfg       Config
	extractor *gloss.Extractor
	results   map[string]PhaseResult
}

// NewPipeline creates a new Pipeline. repo may be nil when no database is
// available; the seed phase then fails.
func NewPipeline(log *slog.Logger, repo StatSeeder, cfg Config) *Pipeline {
	return &Pipeline{
		log:       log,
		repo:      repo,
		cfg:       cfg,
		extractor: gloss.NewExtractor(log, cfg.TextbookBudget(), cfg.RemarkBudget()),
		results:   make(map[string]PhaseResult),
	}
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// HasErrors returns true if any phase failed.
func (p *Pipeline) HasErrors() bool {
	for _, r := range p.results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// Run executes the pipeline. If phases is non-empty, only the listed phases
// run, still in canonical order. Unknown phase names are an error.
func (p *Pipeline) Run(ctx context.Context, phases []string) error {
	toRun := allPhases
	if len(phases) > 0 {
		filter := make(map[string]bool, len(phases))
		for _, ph := range phases {
			filter[ph] = true
		}
		var filtered []string
		for _, ph := range allPhases {
			if filter[ph] {
				filtered = append(filtered, ph)
				delete(filter, ph)
			}
		}
		for ph := range filter {
			return fmt.Errorf("unknown phase %q: %w", ph, domain.ErrValidation)
		}
		toRun = filtered
	}

	for _, phase := range toRun {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		p.log.Info("starting phase", slog.String("phase", phase))

		var result PhaseResult
		switch phase {
		case PhaseTextbook:
			result = p.runTextbook(ctx)
		case PhaseDataset:
			result = p.runDataset(ctx)
		case PhaseCSV:
			result = p.runCSV(ctx)
		case PhaseFrequency:
			result = p.runFrequency(ctx)
		case PhaseSample:
			result = p.runSample(ctx)
		case PhaseSeed:
			result = p.runSeed(ctx)
		}
		result.Duration = time.Since(start)
		p.results[phase] = result

		if result.Err != nil {
			p.log.Warn("phase failed",
				slog.String("phase", phase),
				slog.String("error", result.Err.Error()),
				slog.Duration("duration", result.Duration),
			)
		} else {
			p.log.Info("phase completed",
				slog.String("phase", phase),
				slog.Int("inserted", result.Inserted),
				slog.Int("updated", result.Updated),
				slog.Int("skipped", result.Skipped),
				slog.Int("errors", result.Errors),
				slog.Duration("duration", result.Duration),
			)
		}
	}

	p.log.Info("pipeline completed", slog.Int("phases_run", len(toRun)))
	return nil
}

// runTextbook extracts bracketed footnotes from the textbook passages.
func (p *Pipeline) runTextbook(ctx context.Context) PhaseResult {
	if p.cfg.TextbookPassages == "" {
		return PhaseResult{Skipped: 1, Err: errors.New("textbook passages path not configured")}
	}

	passages, err := readAll(p.cfg.TextbookPassages, corpus.ReadPassages)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("read textbook passages: %w", err)}
	}
	p.log.Info("textbook passages read", slog.Int("passages", len(passages)))

	notes, err := extractOrdered(ctx, passages, p.cfg.Workers, p.extractor.ExtractPassage)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("extract textbook notes: %w", err)}
	}

	return p.writeNotes(TextbookNotesFile, notes)
}

// runDataset extracts colon-form remarks from the dataset passages.
func (p *Pipeline) runDataset(ctx context.Context) PhaseResult {
	if p.cfg.DatasetPassages == "" {
		return PhaseResult{Skipped: 1, Err: errors.New("dataset passages path not configured")}
	}

	passages, err := readAll(p.cfg.DatasetPassages, corpus.ReadRemarkPassages)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("read dataset passages: %w", err)}
	}
	p.log.Info("dataset passages read", slog.Int("passages", len(passages)))

	notes, err := extractOrdered(ctx, passages, p.cfg.Workers, p.extractor.ExtractRemark)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("extract dataset notes: %w", err)}
	}

	return p.writeNotes(DatasetNotesFile, notes)
}

// runCSV converts model-test rows (context, query, answer) into notes.
func (p *Pipeline) runCSV(_ context.Context) PhaseResult {
	if p.cfg.ModelTestCSV == "" {
		return PhaseResult{Skipped: 1, Err: errors.New("model test csv path not configured")}
	}

	rows, err := readAll(p.cfg.ModelTestCSV, corpus.ReadQARecords)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("read model test csv: %w", err)}
	}

	var (
		notes  []domain.Note
		failed int
	)
	for i, row := range rows {
		n, err := gloss.NoteFromQuery(row.Context, row.Query, row.Answer)
		if err != nil {
			failed++
			p.log.Debug("skip csv row", slog.Int("row", i+2), slog.String("error", err.Error()))
			continue
		}
		notes = append(notes, n)
	}

	result := p.writeNotes(CSVNotesFile, [][]domain.Note{notes})
	result.Errors = failed
	return result
}

// runFrequency ranks every extracted note plus the exported live queries.
func (p *Pipeline) runFrequency(ctx context.Context) PhaseResult {
	type input struct {
		kind domain.CorpusKind
		path string
	}
	inputs := []input{
		{domain.CorpusTextbook, p.outPath(TextbookNotesFile)},
		{domain.CorpusDataset, p.outPath(DatasetNotesFile)},
	}
	if p.cfg.QueryNotes != "" {
		inputs = append(inputs, input{domain.CorpusQuery, p.cfg.QueryNotes})
	}

	var sources []corpus.Source
	for _, in := range inputs {
		f, err := os.Open(in.path)
		if errors.Is(err, fs.ErrNotExist) {
			p.log.Info("note stream missing, not counted", slog.String("kind", string(in.kind)), slog.String("path", in.path))
			continue
		}
		if err != nil {
			return PhaseResult{Err: fmt.Errorf("open %s notes: %w", in.kind, err)}
		}
		defer f.Close()
		sources = append(sources, corpus.Source{Kind: in.kind, Name: in.path, Reader: bufio.NewReader(f)})
	}
	if len(sources) == 0 {
		return PhaseResult{Skipped: 1, Err: errors.New("no note streams to count")}
	}

	corp, err := corpus.Load(ctx, p.cfg.Weights(), sources...)
	if err != nil {
		return PhaseResult{Err: err}
	}

	ranked := corp.Rank()
	if p.cfg.DryRun {
		return PhaseResult{Skipped: len(ranked)}
	}

	n, err := writeFile(p.outPath(FreqFile), func(w *corpus.Writer) error {
		for _, info := range ranked {
			if err := w.Write(info); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("write frequency ranking: %w", err)}
	}
	return PhaseResult{Inserted: n}
}

// runSample takes every Nth ranked word into the sample file. Words whose
// notes are all removed by the note filters are skipped.
func (p *Pipeline) runSample(_ context.Context) PhaseResult {
	f, err := os.Open(p.outPath(FreqFile))
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("open frequency ranking: %w", err)}
	}
	defer f.Close()

	var res PhaseResult
	emit := func(w *corpus.Writer) func(domain.FreqInfo) error {
		return func(info domain.FreqInfo) error {
			info, ok := p.filterNotes(info)
			if !ok {
				res.Skipped++
				return nil
			}
			if w == nil {
				res.Inserted++
				return nil
			}
			return w.Write(info)
		}
	}

	if p.cfg.DryRun {
		if _, err := corpus.StrideSample(f, p.cfg.SampleStride, p.cfg.SampleOffset, p.cfg.SampleLimit, emit(nil)); err != nil {
			return PhaseResult{Err: err}
		}
		return PhaseResult{Skipped: res.Inserted + res.Skipped}
	}

	n, err := writeFile(p.outPath(SampleFile), func(w *corpus.Writer) error {
		_, err := corpus.StrideSample(f, p.cfg.SampleStride, p.cfg.SampleOffset, p.cfg.SampleLimit, emit(w))
		return err
	})
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("sample frequency ranking: %w", err)}
	}
	res.Inserted = n
	return res
}

// filterNotes keeps the notes of info that pass the sample filters. The
// counters are left as ranked. It reports false when filtering removed every note.
func (p *Pipeline) filterNotes(info domain.FreqInfo) (domain.FreqInfo, bool) {
	if !p.cfg.SampleShortOnly && !p.cfg.SampleSkipTitles && p.cfg.SampleMaxCoreDetail == 0 {
		return info, true
	}

	kept := make([]domain.Note, 0, len(info.Notes))
	for _, n := range info.Notes {
		switch {
		case p.cfg.SampleShortOnly && !n.IsShortNote():
		case p.cfg.SampleSkipTitles && n.IsTitleNote():
		case p.cfg.SampleMaxCoreDetail > 0 && utf8.RuneCountInString(n.CoreDetail) >= p.cfg.SampleMaxCoreDetail:
		default:
			kept = append(kept, n)
		}
	}
	info.Notes = kept
	return info, len(kept) > 0
}

// runSeed upserts the ranked textbook and dataset counters into the database.
func (p *Pipeline) runSeed(ctx context.Context) PhaseResult {
	if p.cfg.DryRun {
		return PhaseResult{Skipped: 1}
	}
	if p.repo == nil {
		return PhaseResult{Skipped: 1, Err: errors.New("no database configured")}
	}

	infos, err := readAll(p.outPath(FreqFile), corpus.ReadFreqInfos)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("read frequency ranking: %w", err)}
	}

	stats := make([]domain.CorpusStat, len(infos))
	for i, info := range infos {
		stats[i] = domain.CorpusStat{
			Word:         info.Word,
			FreqTextbook: info.TextbookFreq,
			FreqDataset:  info.DatasetFreq,
		}
	}

	updated, err := batchProcess(stats, p.cfg.BatchSize, func(batch []domain.CorpusStat) (int, error) {
		return p.repo.UpsertCounts(ctx, batch)
	})
	if err != nil {
		return PhaseResult{Updated: updated, Err: fmt.Errorf("upsert counts: %w", err)}
	}
	return PhaseResult{Updated: updated}
}

// writeNotes flattens per-passage note batches into one note stream.
func (p *Pipeline) writeNotes(name string, batches [][]domain.Note) PhaseResult {
	empty := 0
	total := 0
	for _, b := range batches {
		if len(b) == 0 {
			empty++
		}
		total += len(b)
	}

	if p.cfg.DryRun {
		return PhaseResult{Skipped: total}
	}

	n, err := writeFile(p.outPath(name), func(w *corpus.Writer) error {
		for _, b := range batches {
			for _, note := range b {
				if err := w.Write(note); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("write %s: %w", name, err)}
	}
	return PhaseResult{Inserted: n, Skipped: empty}
}

func (p *Pipeline) outPath(name string) string {
	return filepath.Join(p.cfg.OutputDir, name)
}

// extractOrdered runs fn over items with at most workers goroutines and
// returns the results in input order.
func extractOrdered[T any](ctx context.Context, items []T, workers int, fn func(T) []domain.Note) ([][]domain.Note, error) {
	out := make([][]domain.Note, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))
	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = fn(item)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// readAll collects every record of a streaming reader from a file.
func readAll[T any](path string, read func(r io.Reader, fn func(T) error) error) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var items []T
	err = read(bufio.NewReader(f), func(item T) error {
		items = append(items, item)
		return nil
	})
	return items, err
}

// writeFile creates path and its directory, runs fill with a record writer
// and returns the number of records written.
func writeFile(path string, fill func(w *corpus.Writer) error) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	w := corpus.NewWriter(buf)
	if err := fill(w); err != nil {
		return w.Count(), err
	}
	if err := buf.Flush(); err != nil {
		return w.Count(), err
	}
	return w.Count(), f.Close()
}

// batchProcess splits items into batches and processes each via fn.
func batchProcess[T any](items []T, batchSize int, fn func([]T) (int, error)) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	total := 0
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		n, err := fn(items[i:end])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
