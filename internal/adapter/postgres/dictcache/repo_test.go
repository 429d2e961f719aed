package dictcache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

func newMockRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func TestRepo_Get_Hit(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	raw := []byte(`{"basic":["云和雨。"],"detailed":["比喻恩泽。"]}`)
	mock.ExpectQuery(`SELECT content FROM dict_cache WHERE word = \$1`).
		WithArgs("云雨").
		WillReturnRows(pgxmock.NewRows([]string{"content"}).AddRow(raw))

	got, err := repo.Get(context.Background(), "云雨")
	if err != nil {
		t.Fatalf("Get: unexpected error: %v", err)
	}
	if !got.Cached {
		t.Error("cached definition should have Cached set")
	}
	if len(got.Basic) != 1 || got.Basic[0] != "云和雨。" {
		t.Errorf("Basic = %v", got.Basic)
	}
	if got.Phrases == nil {
		t.Error("Phrases should be an empty slice, not nil")
	}
}

func TestRepo_Get_Miss(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT content FROM dict_cache`).
		WithArgs("云雨").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Get(context.Background(), "云雨")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_Get_CorruptContent(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT content FROM dict_cache`).
		WithArgs("云雨").
		WillReturnRows(pgxmock.NewRows([]string{"content"}).AddRow([]byte(`not json`)))

	if _, err := repo.Get(context.Background(), "云雨"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestRepo_Save(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	want, _ := json.Marshal(content{Basic: []string{"云和雨。"}, Detailed: []string{}, Phrases: []string{}})
	mock.ExpectExec(`INSERT INTO dict_cache \(word,content\) VALUES \(\$1,\$2\) ON CONFLICT \(word\) DO UPDATE`).
		WithArgs("云雨", want).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Save(context.Background(), domain.Definition{Word: "云雨", Basic: []string{"云和雨。"}})
	if err != nil {
		t.Fatalf("Save: unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
