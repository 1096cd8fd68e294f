package migrate

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	in := `
-- comentario; con punto y coma
create table a (x text default 'a;b');
insert into a values ('it''s');

`
	got := splitStatements(in)
	require.Len(t, got, 2)
	assert.Equal(t, "create table a (x text default 'a;b')", got[0])
	assert.Equal(t, "insert into a values ('it''s')", got[1])
}

func TestManager_UpAppliesPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	files := fstest.MapFS{
		"sql/0001_a.up.sql":   {Data: []byte("create table a (id int);")},
		"sql/0001_a.down.sql": {Data: []byte("drop table a;")},
		"sql/0002_b.up.sql":   {Data: []byte("create table b (id int); create index b_idx on b (id);")},
	}
	m := NewManager(db, files, "sql")

	mock.ExpectExec("create table if not exists schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("create table if not exists schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("select name from schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("0001_a"))

	mock.ExpectBegin()
	mock.ExpectExec("create table b").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("create index b_idx").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("insert into schema_migrations").WithArgs("0002_b", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	applied, err := m.Up(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0002_b"}, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_DownNothingApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := NewManager(db, fstest.MapFS{}, "sql")
	mock.ExpectExec("create table if not exists schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("create table if not exists schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("select name from schema_migrations").WillReturnRows(sqlmock.NewRows([]string{"name"}))

	_, err = m.Down(context.Background())
	assert.ErrorIs(t, err, ErrNothingApplied)
	assert.NoError(t, mock.ExpectationsWereMet())
}
