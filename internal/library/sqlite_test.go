package library

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-variants/internal/types"
)

func TestSQLite(t *testing.T) {
	runLibraryContract(t, func(t *testing.T) Library {
		lib, err := OpenSQLite(context.Background(), ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = lib.Close() })
		return lib
	})
}

func TestSQLite_PersistsToFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "library.db")

	lib, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, lib.Save(ctx, master("m1", t0)))
	require.NoError(t, lib.Close())

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Master m1", got.Name)
}

func TestSQL_SaveVariantChecksBase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	lib := &SQL{DB: db}
	rec := variant("v1", "m1", t0)

	mock.ExpectQuery("SELECT COUNT\\(1\\) FROM resumes WHERE id = \\?").
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("INSERT INTO resumes").
		WithArgs(
			"v1",
			"variant",
			"Variant v1",
			"2026-01-10T12:00:00.000000000Z",
			sqlmock.AnyArg(), // base_resume_id
			sqlmock.AnyArg(), // sections
			sqlmock.AnyArg(), // job_context
			sqlmock.AnyArg(), // metrics
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, lib.Save(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQL_SaveDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("INSERT INTO resumes").WillReturnResult(sqlmock.NewResult(0, 0))

	err = (&SQL{DB: db}).Save(context.Background(), master("m1", t0))
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQL_GetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT .* FROM resumes WHERE id = \\?").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = (&SQL{DB: db}).Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQL_ListBuildsFilteredQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	columns := []string{"id", "kind", "name", "created_at", "base_resume_id", "sections", "job_context", "metrics"}
	mock.ExpectQuery("WHERE kind = \\? AND base_resume_id = \\? ORDER BY created_at DESC, id ASC LIMIT \\?").
		WithArgs("variant", "m1", 5).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			"v1", "variant", "Variant v1", "2026-01-10T12:00:00.000000000Z", "m1",
			`[{"id":"s1","kind":"skills","label":"","content":["Go"]}]`, nil, nil,
		))

	got, err := (&SQL{DB: db}).List(context.Background(), ListFilter{Kind: types.ResumeKindVariant, BaseResumeID: "m1", Limit: 5})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].BaseResumeID)
	assert.Equal(t, []string{"Go"}, got[0].Sections[0].Content)
	assert.Nil(t, got[0].JobContext)
	assert.True(t, got[0].CreatedAt.Equal(t0))
	assert.NoError(t, mock.ExpectationsWereMet())
}
