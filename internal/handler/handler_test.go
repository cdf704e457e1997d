package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shotza247/watsonx-db2-api/internal/config"
	"github.com/Shotza247/watsonx-db2-api/internal/repository"
	"github.com/Shotza247/watsonx-db2-api/internal/service"
)

func newTestRouter(t *testing.T) (*mux.Router, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{
		DBHost:   "localhost",
		DBPort:   "50000",
		DBName:   "BLUDB",
		DBSchema: "CREDIT",
		DBTable:  "CREDIT_APPLICATIONS",
		Env:      "production",
	}
	repo := repository.NewRepository(sqlx.NewDb(db, "sqlmock"), log)
	svc := service.NewService(repo, cfg, log)
	h := NewHandler(svc, log, cfg)

	r := mux.NewRouter()
	h.RegisterRoutes(r)
	return r, mock
}

func doRequest(t *testing.T, r *mux.Router, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), "every response is a JSON envelope")
	return rec, envelope
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)

	rec, envelope := doRequest(t, r, "GET", "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
	assert.NotEmpty(t, data["timestamp"])
}

func TestUnmatchedRouteReturnsStructured404(t *testing.T) {
	r, _ := newTestRouter(t)

	rec, envelope := doRequest(t, r, "GET", "/api/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, envelope["success"])
	assert.Contains(t, envelope["error"], "route not found")
}

func TestSearchQueryTooShort(t *testing.T) {
	r, mock := newTestRouter(t)

	rec, envelope := doRequest(t, r, "GET", "/api/search?query=a", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, envelope["success"])
	assert.Contains(t, envelope["error"], "at least 2 characters")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListApplications(t *testing.T) {
	r, mock := newTestRouter(t)
	rows := sqlmock.NewRows([]string{"APP_REF", "APP_STATUS"}).
		AddRow("APP-002", "APPROVED").
		AddRow("APP-001", "PENDING")
	mock.ExpectQuery("SELECT .* FROM CREDIT.CREDIT_APPLICATIONS").
		WithArgs("APPROVED", 0, 100).
		WillReturnRows(rows)

	rec, envelope := doRequest(t, r, "GET", "/api/applications?status=approved", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["count"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListApplicationsBadLimit(t *testing.T) {
	r, mock := newTestRouter(t)

	rec, envelope := doRequest(t, r, "GET", "/api/applications?limit=abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, envelope["error"], "limit")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetApplicationNotFound(t *testing.T) {
	r, mock := newTestRouter(t)
	mock.ExpectQuery("WHERE APP_REF = ").
		WithArgs("APP-404").
		WillReturnRows(sqlmock.NewRows([]string{"APP_REF"}))

	rec, envelope := doRequest(t, r, "GET", "/api/application/APP-404", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, envelope["error"], "APP-404")
}

func TestCreateApplicationInvalidJSON(t *testing.T) {
	r, mock := newTestRouter(t)

	rec, envelope := doRequest(t, r, "POST", "/api/application", "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, envelope["error"], "invalid JSON")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplicationConflict(t *testing.T) {
	r, mock := newTestRouter(t)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("APP-001").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	body := `{"app_ref":"APP-001","cis_customer_number":"CIS42"}`
	rec, envelope := doRequest(t, r, "POST", "/api/application", body)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, envelope["error"], "already exists")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplication(t *testing.T) {
	r, mock := newTestRouter(t)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("APP-001").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(0))
	mock.ExpectExec("INSERT INTO CREDIT.CREDIT_APPLICATIONS").
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := `{"app_ref":"APP-001","cis_customer_number":"cis42","requested_amount":15000}`
	rec, envelope := doRequest(t, r, "POST", "/api/application", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "APP-001", data["app_ref"])
	assert.Equal(t, "CIS42", data["cis_customer_number"])
	assert.Equal(t, "GBP", data["currency"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	r, mock := newTestRouter(t)

	rec, envelope := doRequest(t, r, "PATCH", "/api/application/APP-001/status", `{"status":"CANCELLED"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, envelope["error"], "invalid status")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteApplication(t *testing.T) {
	r, mock := newTestRouter(t)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("APP-001").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec("DELETE FROM CREDIT.CREDIT_APPLICATIONS").
		WithArgs("APP-001").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, envelope := doRequest(t, r, "DELETE", "/api/application/APP-001", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, true, data["deleted"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreErrorIsSanitized(t *testing.T) {
	r, mock := newTestRouter(t)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) AS TOTAL_APPLICATIONS").
		WillReturnError(errors.New("SQL30081N communication error HOSTNAME=db2.internal PWD=hunter2"))

	rec, envelope := doRequest(t, r, "GET", "/api/stats/overview", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "query execution failed", envelope["error"])
	assert.NotContains(t, rec.Body.String(), "hunter2", "driver detail never leaks outside development mode")
}
