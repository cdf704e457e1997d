// Package service implements the record operations: input validation, query
// composition, store invocation, and result shaping. All validation happens
// before any store round trip.
package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Shotza247/watsonx-db2-api/internal/apperr"
	"github.com/Shotza247/watsonx-db2-api/internal/config"
	"github.com/Shotza247/watsonx-db2-api/internal/models"
	"github.com/Shotza247/watsonx-db2-api/internal/query"
	"github.com/Shotza247/watsonx-db2-api/internal/repository"
)

const (
	defaultLimit    = 100
	defaultOffset   = 0
	minSearchLength = 2
	defaultCurrency = "GBP"
)

// Service handles business logic
type Service struct {
	repo  *repository.Repository
	cfg   *config.Config
	log   *logrus.Logger
	table string
}

// NewService initializes a new service
func NewService(repo *repository.Repository, cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log, table: cfg.QualifiedTable()}
}

// ListParams carries the raw query-string inputs of the list operation.
type ListParams struct {
	Status      string
	CustomerID  string
	ProductCode string
	MinAmount   string
	MaxAmount   string
	Limit       string
	Offset      string
}

// ListApplications returns the filtered, paginated listing. Non-numeric
// amount or pagination input is rejected, never silently coerced.
func (s *Service) ListApplications(ctx context.Context, p ListParams) ([]models.CreditApplication, error) {
	f := query.ListFilter{
		Status:      optional(p.Status),
		CustomerID:  optional(p.CustomerID),
		ProductCode: optional(p.ProductCode),
	}

	var err error
	if f.MinAmount, err = parseAmount("min_amount", p.MinAmount); err != nil {
		return nil, err
	}
	if f.MaxAmount, err = parseAmount("max_amount", p.MaxAmount); err != nil {
		return nil, err
	}
	if f.Limit, err = parsePage("limit", p.Limit, defaultLimit); err != nil {
		return nil, err
	}
	if f.Offset, err = parsePage("offset", p.Offset, defaultOffset); err != nil {
		return nil, err
	}

	stmt, args := query.List(s.table, f)
	apps := []models.CreditApplication{}
	if err := s.repo.Select(ctx, &apps, stmt, args...); err != nil {
		return nil, err
	}
	return apps, nil
}

// GetApplication returns one record by key.
func (s *Service) GetApplication(ctx context.Context, appRef string) (*models.CreditApplication, error) {
	appRef = strings.TrimSpace(appRef)
	if appRef == "" {
		return nil, apperr.ClientInput("app_ref is required")
	}

	stmt, args := query.GetByRef(s.table, appRef)
	var app models.CreditApplication
	if err := s.repo.Get(ctx, &app, stmt, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("application %s not found", appRef)
		}
		return nil, err
	}
	return &app, nil
}

// GetCustomerApplications returns every record owned by a customer, newest
// first. A customer with no records is not-found, not an empty list.
func (s *Service) GetCustomerApplications(ctx context.Context, cisNumber string) ([]models.CreditApplication, error) {
	cisNumber = strings.TrimSpace(cisNumber)
	if cisNumber == "" {
		return nil, apperr.ClientInput("cis_number is required")
	}

	stmt, args := query.ByCustomer(s.table, cisNumber)
	apps := []models.CreditApplication{}
	if err := s.repo.Select(ctx, &apps, stmt, args...); err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, apperr.NotFound("no applications found for customer %s", strings.ToUpper(cisNumber))
	}
	return apps, nil
}

// GetCustomerSummary returns the aggregate view for one customer. The
// aggregate row always exists, so zero matched rows is detected by count.
func (s *Service) GetCustomerSummary(ctx context.Context, cisNumber string) (*models.CustomerSummary, error) {
	cisNumber = strings.TrimSpace(cisNumber)
	if cisNumber == "" {
		return nil, apperr.ClientInput("cis_number is required")
	}

	stmt, args := query.CustomerSummary(s.table, cisNumber)
	var summary models.CustomerSummary
	if err := s.repo.Get(ctx, &summary, stmt, args...); err != nil {
		return nil, err
	}
	if summary.TotalApplications == 0 {
		return nil, apperr.NotFound("no applications found for customer %s", strings.ToUpper(cisNumber))
	}
	summary.CISCustomerNumber = strings.ToUpper(cisNumber)
	return &summary, nil
}

// SearchApplications runs the cross-field substring search. Terms shorter
// than two characters are rejected before any store call.
func (s *Service) SearchApplications(ctx context.Context, term string) ([]models.CreditApplication, error) {
	term = strings.TrimSpace(term)
	if len(term) < minSearchLength {
		return nil, apperr.ClientInput("query must be at least %d characters", minSearchLength)
	}

	stmt, args := query.Search(s.table, term)
	apps := []models.CreditApplication{}
	if err := s.repo.Select(ctx, &apps, stmt, args...); err != nil {
		return nil, err
	}
	return apps, nil
}

// CreateApplication inserts a new record. The existence pre-check is a fast
// path; the table's unique constraint on APP_REF is authoritative and its
// violation maps to the same conflict.
func (s *Service) CreateApplication(ctx context.Context, app *models.CreditApplication) (*models.CreditApplication, error) {
	app.AppRef = strings.TrimSpace(app.AppRef)
	if app.AppRef == "" {
		return nil, apperr.ClientInput("app_ref is required")
	}
	if app.CISCustomerNumber == nil || strings.TrimSpace(*app.CISCustomerNumber) == "" {
		return nil, apperr.ClientInput("cis_customer_number is required")
	}
	cis := strings.ToUpper(strings.TrimSpace(*app.CISCustomerNumber))
	app.CISCustomerNumber = &cis

	if app.AppStatus != nil {
		status := strings.ToUpper(strings.TrimSpace(*app.AppStatus))
		if !models.IsValidStatus(status) {
			return nil, apperr.ClientInput("invalid status %q, must be one of: %s",
				*app.AppStatus, strings.Join(models.Statuses, ", "))
		}
		app.AppStatus = &status
	}

	if app.SubmissionTimestamp == nil {
		now := time.Now().UTC()
		app.SubmissionTimestamp = &now
	}
	if app.Currency == nil {
		currency := defaultCurrency
		app.Currency = &currency
	}

	exists, err := s.exists(ctx, app.AppRef)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("application %s already exists", app.AppRef)
	}

	stmt, args := query.Insert(s.table, app)
	if _, err := s.repo.Exec(ctx, stmt, args...); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperr.Conflict("application %s already exists", app.AppRef)
		}
		return nil, err
	}

	s.log.Infof("Application created: %s", app.AppRef)
	return app, nil
}

// UpdateStatus transitions a record's status; a reason on a rejection also
// sets the failure-reason column.
func (s *Service) UpdateStatus(ctx context.Context, appRef, status string, reason *string) error {
	appRef = strings.TrimSpace(appRef)
	status = strings.ToUpper(strings.TrimSpace(status))
	if status == "" {
		return apperr.ClientInput("status is required")
	}
	if !models.IsValidStatus(status) {
		return apperr.ClientInput("invalid status %q, must be one of: %s",
			status, strings.Join(models.Statuses, ", "))
	}

	if err := s.requireExists(ctx, appRef); err != nil {
		return err
	}

	stmt, args := query.UpdateStatus(s.table, appRef, status, reason)
	rows, err := s.repo.Exec(ctx, stmt, args...)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("application %s not found", appRef)
	}

	s.log.Infof("Application %s status set to %s", appRef, status)
	return nil
}

// UpdateApplication applies a partial field update from a column→value
// mapping. Unknown columns are rejected; an empty mapping after excluding the
// key column is a client error.
func (s *Service) UpdateApplication(ctx context.Context, appRef string, fields map[string]interface{}) error {
	appRef = strings.TrimSpace(appRef)

	stmt, args, err := query.UpdateFields(s.table, appRef, fields)
	if err != nil {
		return err
	}

	if err := s.requireExists(ctx, appRef); err != nil {
		return err
	}

	rows, err := s.repo.Exec(ctx, stmt, args...)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("application %s not found", appRef)
	}

	s.log.Infof("Application updated: %s", appRef)
	return nil
}

// DeleteApplication removes a record by key.
func (s *Service) DeleteApplication(ctx context.Context, appRef string) error {
	appRef = strings.TrimSpace(appRef)

	if err := s.requireExists(ctx, appRef); err != nil {
		return err
	}

	stmt, args := query.Delete(s.table, appRef)
	rows, err := s.repo.Exec(ctx, stmt, args...)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("application %s not found", appRef)
	}

	s.log.Infof("Application deleted: %s", appRef)
	return nil
}

// StatsOverview returns table-wide aggregates. An empty table yields zero
// counts and null measures, not an error.
func (s *Service) StatsOverview(ctx context.Context) (*models.OverviewStats, error) {
	var stats models.OverviewStats
	if err := s.repo.Get(ctx, &stats, query.Overview(s.table)); err != nil {
		return nil, err
	}
	return &stats, nil
}

// StatsByStatus returns per-status aggregates.
func (s *Service) StatsByStatus(ctx context.Context) ([]models.StatusStats, error) {
	stats := []models.StatusStats{}
	if err := s.repo.Select(ctx, &stats, query.ByStatus(s.table)); err != nil {
		return nil, err
	}
	return stats, nil
}

// StatsByProduct returns per-product aggregates.
func (s *Service) StatsByProduct(ctx context.Context) ([]models.ProductStats, error) {
	stats := []models.ProductStats{}
	if err := s.repo.Select(ctx, &stats, query.ByProduct(s.table)); err != nil {
		return nil, err
	}
	return stats, nil
}

// TestConnection runs the connectivity probe.
func (s *Service) TestConnection(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// StoreInfo reports the configured target and current row count.
func (s *Service) StoreInfo(ctx context.Context) (*models.StoreInfo, error) {
	var count int64
	if err := s.repo.Get(ctx, &count, query.CountAll(s.table)); err != nil {
		return nil, err
	}
	return &models.StoreInfo{
		Target:   s.cfg.Target(),
		Schema:   s.cfg.DBSchema,
		Table:    s.cfg.DBTable,
		RowCount: count,
	}, nil
}

// exists runs the key-lookup half of check-then-act.
func (s *Service) exists(ctx context.Context, appRef string) (bool, error) {
	stmt, args := query.Exists(s.table, appRef)
	var count int
	if err := s.repo.Get(ctx, &count, stmt, args...); err != nil {
		return false, err
	}
	return count > 0, nil
}

// requireExists short-circuits mutations on missing keys.
func (s *Service) requireExists(ctx context.Context, appRef string) error {
	if appRef == "" {
		return apperr.ClientInput("app_ref is required")
	}
	exists, err := s.exists(ctx, appRef)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("application %s not found", appRef)
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func parseAmount(name, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.ClientInput("%s must be numeric, got %q", name, raw)
	}
	return &v, nil
}

func parsePage(name, raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, apperr.ClientInput("%s must be a non-negative integer, got %q", name, raw)
	}
	return v, nil
}
