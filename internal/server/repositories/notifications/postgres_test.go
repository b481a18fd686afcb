package notifications

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/feedhub/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

const (
	insertQ = `(?s)^INSERT\s+INTO\s+notifications\s*\(id,\s*from_user_id,\s*to_user_id,\s*kind,\s*read,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*false,\s*\$5\)\s*$`
	ackQ    = `(?s)^UPDATE\s+notifications\s+SET\s+read\s*=\s*true\s+WHERE\s+to_user_id\s*=\s*\$1\s+AND\s+read\s*=\s*false\s+RETURNING\s+id\s*$`
	listQ   = `(?s)^SELECT\s+n\.id,.*FROM\s+notifications\s+n\s+LEFT\s+JOIN\s+users\s+u\s+ON\s+u\.id\s*=\s*n\.from_user_id\s+WHERE\s+n\.to_user_id\s*=\s*\$1\s+AND\s+n\.read\s*=\s*true\s+ORDER\s+BY\s+n\.created_at\s+DESC,\s*n\.id\s+DESC\s*$`
	countQ  = `(?s)^SELECT\s+COUNT\(\*\)\s+FROM\s+notifications\s+WHERE\s+to_user_id\s*=\s*\$1\s+AND\s+read\s*=\s*false\s*$`
	deleteQ = `(?s)^DELETE\s+FROM\s+notifications\s+WHERE\s+to_user_id\s*=\s*\$1\s*$`
)

var dbErrRe = regexp.MustCompile(`db error: .*db err`)

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Now()
	mock.ExpectExec(insertQ).
		WithArgs("n1", "a", "b", "like", at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertQ).
		WithArgs("n2", "a", "b", "follow", at).
		WillReturnError(errors.New("db err"))

	err := repo.Create(context.Background(), &models.Notification{ID: "n1", FromUserID: "a", ToUserID: "b", Kind: models.KindLike, CreatedAt: at})
	require.NoError(t, err)

	err = repo.Create(context.Background(), &models.Notification{ID: "n2", FromUserID: "a", ToUserID: "b", Kind: models.KindFollow, CreatedAt: at})
	require.Error(t, err)
	assert.Regexp(t, dbErrRe, err.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcknowledge_ReturnsFlippedIDs(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(ackQ).WithArgs("b").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("n1").AddRow("n2"))

	ids, err := repo.Acknowledge(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"n1", "n2"}, ids)
}

func TestAcknowledge_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(ackQ).WithArgs("b").WillReturnError(errors.New("db err"))

	_, err := repo.Acknowledge(context.Background(), "b")
	require.Error(t, err)
	assert.Regexp(t, dbErrRe, err.Error())
}

func TestListRead_ProjectsActorAndKeepsOrder(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	t3 := time.Date(2024, 5, 1, 12, 0, 3, 0, time.UTC)
	t1 := t3.Add(-2 * time.Second)
	rows := sqlmock.NewRows([]string{"id", "from_user_id", "username", "profile_img", "to_user_id", "kind", "read", "created_at"}).
		AddRow("n3", "a", "alice", "a.png", "b", "like", true, t3).
		AddRow("n1", "gone", "", "", "b", "comment", true, t1)
	mock.ExpectQuery(listQ).WithArgs("b").WillReturnRows(rows)

	got, err := repo.ListRead(context.Background(), "b")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "n3", got[0].ID)
	assert.Equal(t, models.Actor{ID: "a", UserName: "alice", ProfileImage: "a.png"}, got[0].From)
	assert.Equal(t, models.KindLike, got[0].Kind)

	assert.Equal(t, "n1", got[1].ID)
	assert.Equal(t, models.Actor{ID: "gone"}, got[1].From, "deleted actor degrades to a bare id")
	assert.Equal(t, models.Kind("comment"), got[1].Kind, "unknown stored kinds are still readable")
}

func TestListRead_EmptyIsNonNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).WithArgs("b").
		WillReturnRows(sqlmock.NewRows([]string{"id", "from_user_id", "username", "profile_img", "to_user_id", "kind", "read", "created_at"}))

	got, err := repo.ListRead(context.Background(), "b")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCountUnread(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(countQ).WithArgs("b").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery(countQ).WithArgs("c").WillReturnError(errors.New("db err"))

	n, err := repo.CountUnread(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = repo.CountUnread(context.Background(), "c")
	require.Error(t, err)
	assert.Regexp(t, dbErrRe, err.Error())
}

func TestDeleteForRecipient(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQ).WithArgs("b").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(deleteQ).WithArgs("c").WillReturnError(errors.New("db err"))

	n, err := repo.DeleteForRecipient(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	_, err = repo.DeleteForRecipient(context.Background(), "c")
	require.Error(t, err)
	assert.Regexp(t, dbErrRe, err.Error())
}
