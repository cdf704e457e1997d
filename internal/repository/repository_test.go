package repository

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shotza247/watsonx-db2-api/internal/apperr"
	"github.com/Shotza247/watsonx-db2-api/internal/models"
)

func newTestRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewRepository(sqlx.NewDb(db, "sqlmock"), log), mock
}

func TestGetScansSingleRow(t *testing.T) {
	repo, mock := newTestRepo(t)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("APP-001").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(3))

	var count int
	err := repo.Get(context.Background(), &count, "SELECT COUNT(*) FROM T WHERE APP_REF = ?", "APP-001")

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPassesThroughNoRows(t *testing.T) {
	repo, mock := newTestRepo(t)
	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows([]string{"APP_REF"}))

	var app models.CreditApplication
	err := repo.Get(context.Background(), &app, "SELECT APP_REF FROM T WHERE APP_REF = ?", "missing")

	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClassifiesStatementFailure(t *testing.T) {
	repo, mock := newTestRepo(t)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("SQL0204N undefined name"))

	var app models.CreditApplication
	err := repo.Get(context.Background(), &app, "SELECT APP_REF FROM T")

	require.Error(t, err)
	assert.Equal(t, apperr.KindQuery, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectScansAllRows(t *testing.T) {
	repo, mock := newTestRepo(t)
	rows := sqlmock.NewRows([]string{"APP_REF", "APP_STATUS"}).
		AddRow("APP-002", "APPROVED").
		AddRow("APP-001", "PENDING")
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	apps := []models.CreditApplication{}
	err := repo.Select(context.Background(), &apps, "SELECT APP_REF, APP_STATUS FROM T")

	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "APP-002", apps[0].AppRef)
	require.NotNil(t, apps[1].AppStatus)
	assert.Equal(t, "PENDING", *apps[1].AppStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecReturnsRowsAffected(t *testing.T) {
	repo, mock := newTestRepo(t)
	mock.ExpectExec("DELETE FROM T").
		WithArgs("APP-001").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rows, err := repo.Exec(context.Background(), "DELETE FROM T WHERE APP_REF = ?", "APP-001")

	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecClassifiesStatementFailure(t *testing.T) {
	repo, mock := newTestRepo(t)
	mock.ExpectExec("UPDATE T").WillReturnError(errors.New("SQL0407N null constraint"))

	_, err := repo.Exec(context.Background(), "UPDATE T SET APP_STATUS = ?", nil)

	require.Error(t, err)
	assert.Equal(t, apperr.KindQuery, apperr.KindOf(err))
}

func TestIsDuplicateKey(t *testing.T) {
	dup := errors.New("SQL0803N ... SQLSTATE=23505")
	assert.True(t, IsDuplicateKey(apperr.Query(dup)))
	assert.False(t, IsDuplicateKey(errors.New("SQL0204N undefined name")))
	assert.False(t, IsDuplicateKey(nil))
}
