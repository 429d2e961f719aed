package corpusquery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

var queryColumns = []string{"id", "word", "context", "answer", "created_at"}

func newMockRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func TestRepo_Create(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO corpus_queries \(id,word,context,answer\) VALUES \(\$1,\$2,\$3,\$4\) RETURNING`).
		WithArgs(id, "云雨", "青山一道同云雨", "比喻朋友").
		WillReturnRows(pgxmock.NewRows(queryColumns).AddRow(id, "云雨", "青山一道同云雨", "比喻朋友", now))

	got, err := repo.Create(context.Background(), domain.QueryRecord{
		ID: id, Word: "云雨", Context: "青山一道同云雨", Answer: "比喻朋友",
	})
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}
	if got.ID != id || !got.CreatedAt.Equal(now) {
		t.Errorf("Create = %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_Create_GeneratesID(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO corpus_queries`).
		WithArgs(pgxmock.AnyArg(), "云雨", "", "").
		WillReturnRows(pgxmock.NewRows(queryColumns).AddRow(uuid.New(), "云雨", "", "", time.Now()))

	got, err := repo.Create(context.Background(), domain.QueryRecord{Word: "云雨"})
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}
	if got.ID == uuid.Nil {
		t.Error("expected a generated id")
	}
}

func TestRepo_Create_CheckViolation(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO corpus_queries`).
		WillReturnError(&pgconn.PgError{Code: "23514"})

	_, err := repo.Create(context.Background(), domain.QueryRecord{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRepo_CountByWord(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM corpus_queries WHERE word = \$1`).
		WithArgs("云雨").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.CountByWord(context.Background(), "云雨")
	if err != nil {
		t.Fatalf("CountByWord: unexpected error: %v", err)
	}
	if n != 7 {
		t.Errorf("CountByWord = %d, want 7", n)
	}
}

func TestRepo_ListByWord(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, word, context, answer, created_at FROM corpus_queries WHERE word = \$1 ORDER BY created_at DESC, id LIMIT 30 OFFSET 30`).
		WithArgs("云雨").
		WillReturnRows(pgxmock.NewRows(queryColumns).
			AddRow(uuid.New(), "云雨", "同云雨", "a", now).
			AddRow(uuid.New(), "云雨", "云雨", "b", now.Add(-time.Minute)))

	got, err := repo.ListByWord(context.Background(), "云雨", 30, 30)
	if err != nil {
		t.Fatalf("ListByWord: unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Answer != "a" {
		t.Errorf("ListByWord = %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_Each(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM corpus_queries ORDER BY created_at, id`).
		WillReturnRows(pgxmock.NewRows(queryColumns).
			AddRow(uuid.New(), "云雨", "同云雨", "a", now).
			AddRow(uuid.New(), "两乡", "是两乡", "b", now))

	var words []string
	err := repo.Each(context.Background(), func(q domain.QueryRecord) error {
		words = append(words, q.Word)
		return nil
	})
	if err != nil {
		t.Fatalf("Each: unexpected error: %v", err)
	}
	if len(words) != 2 || words[0] != "云雨" || words[1] != "两乡" {
		t.Errorf("Each words = %v", words)
	}
}

func TestRepo_Each_CallbackError(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	boom := errors.New("boom")

	mock.ExpectQuery(`SELECT .+ FROM corpus_queries`).
		WillReturnRows(pgxmock.NewRows(queryColumns).
			AddRow(uuid.New(), "云雨", "同云雨", "a", time.Now()))

	err := repo.Each(context.Background(), func(domain.QueryRecord) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
}
