package glossary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/wenyan-gloss/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockCorpus struct {
	LookupFunc  func(q string) []domain.Note
	FreqFunc    func(word string) domain.FreqInfo
	RecordsFunc func(word string) []domain.CorpusRecord
}

func (m *mockCorpus) Lookup(q string) []domain.Note {
	if m.LookupFunc != nil {
		return m.LookupFunc(q)
	}
	return []domain.Note{}
}

func (m *mockCorpus) Freq(word string) domain.FreqInfo {
	if m.FreqFunc != nil {
		return m.FreqFunc(word)
	}
	return domain.FreqInfo{Word: word, Notes: []domain.Note{}}
}

func (m *mockCorpus) Records(word string) []domain.CorpusRecord {
	if m.RecordsFunc != nil {
		return m.RecordsFunc(word)
	}
	return []domain.CorpusRecord{}
}

type mockStatRepo struct {
	IncrementQueryFunc func(ctx context.Context, word string) (domain.CorpusStat, error)
	GetByWordFunc      func(ctx context.Context, word string) (domain.CorpusStat, error)
}

func (m *mockStatRepo) IncrementQuery(ctx context.Context, word string) (domain.CorpusStat, error) {
	if m.IncrementQueryFunc != nil {
		return m.IncrementQueryFunc(ctx, word)
	}
	return domain.CorpusStat{Word: word, FreqQuery: 1}, nil
}

func (m *mockStatRepo) GetByWord(ctx context.Context, word string) (domain.CorpusStat, error) {
	if m.GetByWordFunc != nil {
		return m.GetByWordFunc(ctx, word)
	}
	return domain.CorpusStat{}, domain.ErrNotFound
}

type mockQueryRepo struct {
	CreateFunc      func(ctx context.Context, rec domain.QueryRecord) (domain.QueryRecord, error)
	CountByWordFunc func(ctx context.Context, word string) (int, error)
	ListByWordFunc  func(ctx context.Context, word string, limit, offset int) ([]domain.QueryRecord, error)
}

func (m *mockQueryRepo) Create(ctx context.Context, rec domain.QueryRecord) (domain.QueryRecord, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rec)
	}
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()
	return rec, nil
}

func (m *mockQueryRepo) CountByWord(ctx context.Context, word string) (int, error) {
	if m.CountByWordFunc != nil {
		return m.CountByWordFunc(ctx, word)
	}
	return 0, nil
}

func (m *mockQueryRepo) ListByWord(ctx context.Context, word string, limit, offset int) ([]domain.QueryRecord, error) {
	if m.ListByWordFunc != nil {
		return m.ListByWordFunc(ctx, word, limit, offset)
	}
	return []domain.QueryRecord{}, nil
}

type mockTxManager struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockDefinitions struct {
	GetOrFetchFunc func(ctx context.Context, word string) (domain.Definition, error)
}

func (m *mockDefinitions) GetOrFetch(ctx context.Context, word string) (domain.Definition, error) {
	return m.GetOrFetchFunc(ctx, word)
}

// ===========================================================================
// Helpers
// ===========================================================================

type testDeps struct {
	corpus  *mockCorpus
	stats   *mockStatRepo
	queries *mockQueryRepo
	tx      *mockTxManager
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(pageSize int) (*Service, *testDeps) {
	deps := &testDeps{
		corpus:  &mockCorpus{},
		stats:   &mockStatRepo{},
		queries: &mockQueryRepo{},
		tx:      &mockTxManager{},
	}
	svc := NewService(newTestLogger(), deps.corpus, deps.stats, deps.queries, deps.tx, pageSize)
	return svc, deps
}

func makeNote(t *testing.T, context string, start, end int, detail string) domain.Note {
	t.Helper()
	n, err := domain.NewNote("赤壁赋", context, domain.Span{Start: start, End: end}, detail, detail)
	require.NoError(t, err)
	return n
}

func textbookRecords(n int) []domain.CorpusRecord {
	recs := make([]domain.CorpusRecord, n)
	for i := range recs {
		recs[i] = domain.CorpusRecord{Query: "属", Kind: domain.CorpusTextbook, Context: "举酒属客"}
	}
	return recs
}

func queryRecords(n int) []domain.QueryRecord {
	recs := make([]domain.QueryRecord, n)
	for i := range recs {
		recs[i] = domain.QueryRecord{ID: uuid.New(), Word: "属", Context: "属予作文以记之"}
	}
	return recs
}

// ===========================================================================
// 1. Lookup / SearchOriginal
// ===========================================================================

func TestService_Lookup_Delegates(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(0)

	note := makeNote(t, "举酒属客", 2, 3, "劝酒")
	deps.corpus.LookupFunc = func(q string) []domain.Note {
		assert.Equal(t, "属", q)
		return []domain.Note{note}
	}

	assert.Equal(t, []domain.Note{note}, svc.Lookup("属"))
}

func TestService_SearchOriginal(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(0)

	same := makeNote(t, "举酒属客", 2, 3, "劝酒")
	other := makeNote(t, "属予作文以记之", 0, 1, "同嘱")
	longer := makeNote(t, "举酒属客诵明月之诗", 2, 4, "劝酒的客人")
	deps.corpus.LookupFunc = func(string) []domain.Note {
		return []domain.Note{same, other, longer}
	}

	tests := []struct {
		name    string
		excerpt string
		want    []domain.Note
	}{
		{name: "excerpt contains context", excerpt: "壬戌之秋，举酒属客，诵明月之诗", want: []domain.Note{same}},
		{name: "context contains excerpt", excerpt: "酒属", want: []domain.Note{same}},
		{name: "no overlap", excerpt: "浩浩乎如冯虚御风", want: []domain.Note{}},
		{name: "empty excerpt", excerpt: "", want: []domain.Note{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.SearchOriginal(tt.excerpt, "属"))
		})
	}
}

// ===========================================================================
// 2. FreqDetail
// ===========================================================================

func TestService_FreqDetail_EmptyWord(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(0)

	_, err := svc.FreqDetail(context.Background(), " ", 1)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_FreqDetail_UnknownWord(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(0)

	detail, err := svc.FreqDetail(context.Background(), "龘", 1)
	require.NoError(t, err)
	assert.Equal(t, "龘", detail.Stat.Word)
	assert.Zero(t, detail.Stat.FreqTextbook)
	assert.Zero(t, detail.Stat.FreqQuery)
	assert.Empty(t, detail.Records)
	assert.NotNil(t, detail.Records)
	assert.Equal(t, 1, detail.TotalPages)
}

func TestService_FreqDetail_MergesCounts(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(0)

	deps.corpus.FreqFunc = func(word string) domain.FreqInfo {
		return domain.FreqInfo{Word: word, TextbookFreq: 2, DatasetFreq: 5, QueryFreq: 1}
	}
	deps.stats.GetByWordFunc = func(_ context.Context, word string) (domain.CorpusStat, error) {
		return domain.CorpusStat{Word: word, FreqTextbook: 9, FreqQuery: 4}, nil
	}

	detail, err := svc.FreqDetail(context.Background(), "属", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.Stat.FreqTextbook)
	assert.Equal(t, 5, detail.Stat.FreqDataset)
	assert.Equal(t, 4, detail.Stat.FreqQuery)
}

func TestService_FreqDetail_Paging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		page       int
		wantLen    int
		wantKinds  map[domain.CorpusKind]int
		wantLimit  int
		wantOffset int
		wantDB     bool
	}{
		{name: "first page loaded only", page: 1, wantLen: 4, wantKinds: map[domain.CorpusKind]int{domain.CorpusTextbook: 4}},
		{name: "second page straddles", page: 2, wantLen: 4, wantKinds: map[domain.CorpusKind]int{domain.CorpusTextbook: 2, domain.CorpusQuery: 2}, wantDB: true, wantLimit: 2, wantOffset: 0},
		{name: "third page stored only", page: 3, wantLen: 1, wantKinds: map[domain.CorpusKind]int{domain.CorpusQuery: 1}, wantDB: true, wantLimit: 4, wantOffset: 2},
		{name: "past the end", page: 9, wantLen: 0, wantKinds: map[domain.CorpusKind]int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, deps := newTestService(4)
			deps.corpus.RecordsFunc = func(string) []domain.CorpusRecord {
				recs := textbookRecords(6)
				return append(recs, domain.CorpusRecord{Query: "属", Kind: domain.CorpusQuery})
			}
			stored := queryRecords(3)
			deps.queries.CountByWordFunc = func(context.Context, string) (int, error) { return len(stored), nil }

			called := false
			deps.queries.ListByWordFunc = func(_ context.Context, _ string, limit, offset int) ([]domain.QueryRecord, error) {
				called = true
				assert.Equal(t, tt.wantLimit, limit)
				assert.Equal(t, tt.wantOffset, offset)
				end := min(offset+limit, len(stored))
				return stored[offset:end], nil
			}

			detail, err := svc.FreqDetail(context.Background(), "属", tt.page)
			require.NoError(t, err)
			assert.Equal(t, 3, detail.TotalPages)
			assert.Equal(t, tt.wantDB, called)
			require.Len(t, detail.Records, tt.wantLen)

			kinds := map[domain.CorpusKind]int{}
			for _, r := range detail.Records {
				kinds[r.Kind]++
			}
			assert.Equal(t, tt.wantKinds, kinds)
		})
	}
}

func TestService_FreqDetail_PageBelowOne(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(0)

	detail, err := svc.FreqDetail(context.Background(), "属", -3)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Page)
}

func TestService_FreqDetail_StatError(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(0)
	dbErr := errors.New("connection refused")
	deps.stats.GetByWordFunc = func(context.Context, string) (domain.CorpusStat, error) {
		return domain.CorpusStat{}, dbErr
	}

	_, err := svc.FreqDetail(context.Background(), "属", 1)
	require.ErrorIs(t, err, dbErr)
}

// ===========================================================================
// 3. RecordQuery
// ===========================================================================

func TestService_RecordQuery_Success(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(0)

	var order []string
	deps.stats.IncrementQueryFunc = func(_ context.Context, word string) (domain.CorpusStat, error) {
		order = append(order, "increment")
		assert.Equal(t, "属", word)
		return domain.CorpusStat{Word: word, FreqQuery: 3}, nil
	}
	deps.queries.CreateFunc = func(_ context.Context, rec domain.QueryRecord) (domain.QueryRecord, error) {
		order = append(order, "create")
		rec.ID = uuid.New()
		return rec, nil
	}

	rec, err := svc.RecordQuery(context.Background(), RecordQueryInput{Word: " 属 ", Context: "举酒属客", Answer: "劝酒"})
	require.NoError(t, err)
	assert.Equal(t, "属", rec.Word)
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, []string{"increment", "create"}, order)
}

func TestService_RecordQuery_Validation(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(0)
	deps.tx.RunInTxFunc = func(context.Context, func(context.Context) error) error {
		t.Fatal("transaction must not start for invalid input")
		return nil
	}

	_, err := svc.RecordQuery(context.Background(), RecordQueryInput{Word: ""})
	require.ErrorIs(t, err, domain.ErrValidation)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "word", ve.Errors[0].Field)
}

func TestService_RecordQuery_CreateErrorAborts(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(0)
	dbErr := errors.New("insert failed")
	deps.queries.CreateFunc = func(context.Context, domain.QueryRecord) (domain.QueryRecord, error) {
		return domain.QueryRecord{}, dbErr
	}

	_, err := svc.RecordQuery(context.Background(), RecordQueryInput{Word: "属"})
	require.ErrorIs(t, err, dbErr)
}

// ===========================================================================
// 4. Stream
// ===========================================================================

func collect(t *testing.T, svc *Service, in StreamInput) (map[ItemType]StreamItem, error) {
	t.Helper()
	var mu sync.Mutex
	items := map[ItemType]StreamItem{}
	err := svc.Stream(context.Background(), in, func(it StreamItem) error {
		mu.Lock()
		defer mu.Unlock()
		items[it.Type] = it
		return nil
	})
	return items, err
}

func TestService_Stream_AllItems(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(0)
	deps.corpus.LookupFunc = func(string) []domain.Note {
		return []domain.Note{makeNote(t, "举酒属客", 2, 3, "劝酒")}
	}
	svc.SetDefinitions(&mockDefinitions{
		GetOrFetchFunc: func(_ context.Context, word string) (domain.Definition, error) {
			return domain.Definition{Word: word, Basic: []string{"连缀"}}, nil
		},
	})

	items, err := collect(t, svc, StreamInput{Context: "举酒属客，诵明月之诗", Query: "属"})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Len(t, items[ItemSearchOriginal].Originals, 1)
	assert.Equal(t, "属", items[ItemFreq].Freq.Stat.Word)
	assert.Equal(t, []string{"连缀"}, items[ItemZdic].Definition.Basic)
}

func TestService_Stream_WithoutDefinitions(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(0)

	items, err := collect(t, svc, StreamInput{Query: "属"})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.NotContains(t, items, ItemZdic)
}

func TestService_Stream_DefinitionErrorOmitsItem(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(0)
	svc.SetDefinitions(&mockDefinitions{
		GetOrFetchFunc: func(context.Context, string) (domain.Definition, error) {
			return domain.Definition{}, errors.New("timeout")
		},
	})

	items, err := collect(t, svc, StreamInput{Query: "属"})
	require.NoError(t, err)
	assert.NotContains(t, items, ItemZdic)
	assert.Contains(t, items, ItemFreq)
}

func TestService_Stream_FreqErrorFails(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(0)
	dbErr := errors.New("connection refused")
	deps.queries.CountByWordFunc = func(context.Context, string) (int, error) { return 0, dbErr }

	_, err := collect(t, svc, StreamInput{Query: "属"})
	require.ErrorIs(t, err, dbErr)
}

func TestService_Stream_EmitErrorStops(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(0)
	gone := errors.New("client gone")

	err := svc.Stream(context.Background(), StreamInput{Query: "属"}, func(StreamItem) error {
		return gone
	})
	require.ErrorIs(t, err, gone)
}

func TestService_Stream_Validation(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(0)

	err := svc.Stream(context.Background(), StreamInput{Query: "  "}, func(StreamItem) error {
		t.Fatal("nothing must be emitted")
		return nil
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}
