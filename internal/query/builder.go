// Package query builds parameterized DB2 statements from validated request
// intent. Functions here perform no I/O; they return statement text with `?`
// placeholders plus the ordered parameter list to bind. The only text ever
// interpolated is the schema-qualified table name, validated at config load.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Shotza247/watsonx-db2-api/internal/apperr"
	"github.com/Shotza247/watsonx-db2-api/internal/models"
)

// KeyColumn is the immutable natural key of the table.
const KeyColumn = "APP_REF"

// Probe verifies connectivity without touching the application table.
const Probe = "SELECT 1 FROM SYSIBM.SYSDUMMY1"

// Columns lists every column of the table in insert order.
var Columns = []string{
	"APP_REF", "APP_STATUS", "APP_PURPOSE", "APP_CHANNEL",
	"SUBMISSION_TIMESTAMP", "DECISION_TIMESTAMP",
	"PRODUCT_CODE", "PRODUCT_NAME", "PRODUCT_TYPE",
	"REQUESTED_AMOUNT", "REQUESTED_TERM_MONTHS", "CURRENCY",
	"MIN_PRODUCT_AMOUNT", "MAX_PRODUCT_AMOUNT", "MIN_TERM_MONTHS", "MAX_TERM_MONTHS",
	"BASE_RATE",
	"CIS_CUSTOMER_NUMBER", "TITLE", "FIRST_NAME", "LAST_NAME", "DATE_OF_BIRTH",
	"EMAIL", "PHONE_NUMBER", "POSTCODE", "CUSTOMER_SEGMENT", "CUSTOMER_RISK_RATING",
	"RESIDENTIAL_STATUS", "EMPLOYMENT_STATUS", "EMPLOYER_NAME", "TIME_AT_ADDRESS_MONTHS",
	"ANNUAL_INCOME", "MONTHLY_EXPENDITURE", "EXISTING_MONTHLY_DEBT",
	"ACCOUNT_TENURE_MONTHS", "AVERAGE_BALANCE_3M", "OVERDRAFT_LIMIT",
	"OVERDRAFT_UTILIZATION", "MISSED_PAYMENTS_12M", "CCJ_COUNT", "DEFAULTS_COUNT",
	"SCORE_PROVIDER", "CREDIT_SCORE", "SCORE_BAND", "ELIGIBLE_FLAG",
	"ELIGIBILITY_FAILURE_REASONS",
	"RECOMMENDED_PRODUCT_CODE", "RECOMMENDED_PRODUCT_NAME", "RECOMMENDED_AMOUNT",
	"RECOMMENDED_TERM_MONTHS", "RECOMMENDED_APR",
	"RECOMMENDATION_CONDITIONS", "RECOMMENDATION_RATIONALE",
}

var columnSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Columns))
	for _, c := range Columns {
		m[c] = struct{}{}
	}
	return m
}()

var columnList = strings.Join(Columns, ", ")

// KnownColumn reports whether name (already uppercased) is a real column.
func KnownColumn(name string) bool {
	_, ok := columnSet[name]
	return ok
}

// ListFilter carries the optional predicates of the list operation. Nil
// fields contribute no clause. Limit/Offset are validated by the caller.
type ListFilter struct {
	Status      *string
	CustomerID  *string
	ProductCode *string
	MinAmount   *float64
	MaxAmount   *float64
	Limit       int
	Offset      int
}

// List composes the filtered, paginated listing. Present predicates AND
// together; string equality values are uppercased before binding. Rows sharing
// a SUBMISSION_TIMESTAMP have no defined relative order.
func List(table string, f ListFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if f.Status != nil {
		clauses = append(clauses, "APP_STATUS = ?")
		args = append(args, strings.ToUpper(*f.Status))
	}
	if f.CustomerID != nil {
		clauses = append(clauses, "CIS_CUSTOMER_NUMBER = ?")
		args = append(args, strings.ToUpper(*f.CustomerID))
	}
	if f.ProductCode != nil {
		clauses = append(clauses, "PRODUCT_CODE = ?")
		args = append(args, strings.ToUpper(*f.ProductCode))
	}
	if f.MinAmount != nil {
		clauses = append(clauses, "REQUESTED_AMOUNT >= ?")
		args = append(args, *f.MinAmount)
	}
	if f.MaxAmount != nil {
		clauses = append(clauses, "REQUESTED_AMOUNT <= ?")
		args = append(args, *f.MaxAmount)
	}

	stmt := fmt.Sprintf("SELECT %s FROM %s", columnList, table)
	if len(clauses) > 0 {
		stmt += " WHERE " + strings.Join(clauses, " AND ")
	}
	stmt += " ORDER BY SUBMISSION_TIMESTAMP DESC OFFSET ? ROWS FETCH FIRST ? ROWS ONLY"
	args = append(args, f.Offset, f.Limit)
	return stmt, args
}

// searchColumns are the fields the cross-field search matches against.
var searchColumns = []string{"FIRST_NAME", "LAST_NAME", "EMAIL", "CIS_CUSTOMER_NUMBER", "APP_REF"}

// Search composes the case-insensitive substring search. The wildcard pattern
// is a bound parameter, one per matched column. The caller enforces the
// minimum term length.
func Search(table, term string) (string, []interface{}) {
	pattern := "%" + strings.ToUpper(term) + "%"
	clauses := make([]string, len(searchColumns))
	args := make([]interface{}, len(searchColumns))
	for i, col := range searchColumns {
		clauses[i] = fmt.Sprintf("UPPER(%s) LIKE ?", col)
		args[i] = pattern
	}
	stmt := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s ORDER BY SUBMISSION_TIMESTAMP DESC FETCH FIRST 50 ROWS ONLY",
		columnList, table, strings.Join(clauses, " OR "))
	return stmt, args
}

// GetByRef fetches a single row by key.
func GetByRef(table, ref string) (string, []interface{}) {
	stmt := fmt.Sprintf("SELECT %s FROM %s WHERE APP_REF = ?", columnList, table)
	return stmt, []interface{}{ref}
}

// ByCustomer fetches every row owned by a customer, newest first.
func ByCustomer(table, cisNumber string) (string, []interface{}) {
	stmt := fmt.Sprintf(
		"SELECT %s FROM %s WHERE CIS_CUSTOMER_NUMBER = ? ORDER BY SUBMISSION_TIMESTAMP DESC",
		columnList, table)
	return stmt, []interface{}{strings.ToUpper(cisNumber)}
}

// Exists counts rows matching a key; used as the check half of check-then-act.
func Exists(table, ref string) (string, []interface{}) {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE APP_REF = ?", table), []interface{}{ref}
}

// CountAll counts every row in the table.
func CountAll(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
}

// Insert composes the full-width insert for a new record. Parameter order
// follows Columns; nil pointer fields bind as NULL.
func Insert(table string, app *models.CreditApplication) (string, []interface{}) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(Columns)), ", ")
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, columnList, placeholders)
	args := []interface{}{
		app.AppRef, app.AppStatus, app.AppPurpose, app.AppChannel,
		app.SubmissionTimestamp, app.DecisionTimestamp,
		app.ProductCode, app.ProductName, app.ProductType,
		app.RequestedAmount, app.RequestedTermMonths, app.Currency,
		app.MinProductAmount, app.MaxProductAmount, app.MinTermMonths, app.MaxTermMonths,
		app.BaseRate,
		app.CISCustomerNumber, app.Title, app.FirstName, app.LastName, app.DateOfBirth,
		app.Email, app.PhoneNumber, app.Postcode, app.CustomerSegment, app.CustomerRiskRating,
		app.ResidentialStatus, app.EmploymentStatus, app.EmployerName, app.TimeAtAddressMonths,
		app.AnnualIncome, app.MonthlyExpenditure, app.ExistingMonthlyDebt,
		app.AccountTenureMonths, app.AverageBalance3M, app.OverdraftLimit,
		app.OverdraftUtilization, app.MissedPayments12M, app.CCJCount, app.DefaultsCount,
		app.ScoreProvider, app.CreditScore, app.ScoreBand, app.EligibleFlag,
		app.EligibilityFailureReasons,
		app.RecommendedProductCode, app.RecommendedProductName, app.RecommendedAmount,
		app.RecommendedTermMonths, app.RecommendedAPR,
		app.RecommendationConditions, app.RecommendationRationale,
	}
	return stmt, args
}

// UpdateFields composes a partial update from a column→value mapping. Column
// names are uppercased, checked against the known-column set, and the key
// column is excluded. JSON decoding loses the caller's key order, so the SET
// clause uses sorted column order to stay deterministic.
func UpdateFields(table, ref string, fields map[string]interface{}) (string, []interface{}, error) {
	updates := make(map[string]interface{}, len(fields))
	for name, value := range fields {
		col := strings.ToUpper(strings.TrimSpace(name))
		if col == KeyColumn {
			continue
		}
		if !KnownColumn(col) {
			return "", nil, apperr.ClientInput("unknown column: %s", name)
		}
		updates[col] = value
	}
	if len(updates) == 0 {
		return "", nil, apperr.ClientInput("no updatable fields supplied")
	}

	cols := make([]string, 0, len(updates))
	for col := range updates {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	assignments := make([]string, len(cols))
	args := make([]interface{}, 0, len(cols)+1)
	for i, col := range cols {
		assignments[i] = col + " = ?"
		args = append(args, updates[col])
	}
	args = append(args, ref)

	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE APP_REF = ?", table, strings.Join(assignments, ", "))
	return stmt, args, nil
}

// UpdateStatus composes the status transition. A reason accompanying a
// REJECTED status sets the failure-reason column in the same statement. The
// caller validates status against the enumeration first.
func UpdateStatus(table, ref, status string, reason *string) (string, []interface{}) {
	if status == models.StatusRejected && reason != nil {
		stmt := fmt.Sprintf(
			"UPDATE %s SET APP_STATUS = ?, ELIGIBILITY_FAILURE_REASONS = ? WHERE APP_REF = ?", table)
		return stmt, []interface{}{status, *reason, ref}
	}
	stmt := fmt.Sprintf("UPDATE %s SET APP_STATUS = ? WHERE APP_REF = ?", table)
	return stmt, []interface{}{status, ref}
}

// Delete removes a row by key.
func Delete(table, ref string) (string, []interface{}) {
	return fmt.Sprintf("DELETE FROM %s WHERE APP_REF = ?", table), []interface{}{ref}
}

// Overview is the table-wide aggregate template.
func Overview(table string) string {
	return fmt.Sprintf(`SELECT COUNT(*) AS TOTAL_APPLICATIONS,
		SUM(REQUESTED_AMOUNT) AS TOTAL_REQUESTED_AMOUNT,
		AVG(REQUESTED_AMOUNT) AS AVG_REQUESTED_AMOUNT,
		MIN(REQUESTED_AMOUNT) AS MIN_REQUESTED_AMOUNT,
		MAX(REQUESTED_AMOUNT) AS MAX_REQUESTED_AMOUNT,
		AVG(CAST(CREDIT_SCORE AS DOUBLE)) AS AVG_CREDIT_SCORE
		FROM %s`, table)
}

// ByStatus is the per-status aggregate template.
func ByStatus(table string) string {
	return fmt.Sprintf(`SELECT APP_STATUS,
		COUNT(*) AS APPLICATION_COUNT,
		AVG(REQUESTED_AMOUNT) AS AVG_REQUESTED_AMOUNT,
		AVG(CAST(CREDIT_SCORE AS DOUBLE)) AS AVG_CREDIT_SCORE
		FROM %s GROUP BY APP_STATUS ORDER BY APPLICATION_COUNT DESC`, table)
}

// ByProduct is the per-product aggregate template.
func ByProduct(table string) string {
	return fmt.Sprintf(`SELECT PRODUCT_CODE, PRODUCT_NAME,
		COUNT(*) AS APPLICATION_COUNT,
		SUM(REQUESTED_AMOUNT) AS TOTAL_REQUESTED_AMOUNT,
		AVG(REQUESTED_AMOUNT) AS AVG_REQUESTED_AMOUNT
		FROM %s GROUP BY PRODUCT_CODE, PRODUCT_NAME ORDER BY APPLICATION_COUNT DESC`, table)
}

// CustomerSummary is the per-customer aggregate template, bound to one
// uppercased CIS customer number.
func CustomerSummary(table, cisNumber string) (string, []interface{}) {
	stmt := fmt.Sprintf(`SELECT COUNT(*) AS TOTAL_APPLICATIONS,
		SUM(REQUESTED_AMOUNT) AS TOTAL_REQUESTED_AMOUNT,
		AVG(REQUESTED_AMOUNT) AS AVG_REQUESTED_AMOUNT,
		SUM(CASE WHEN APP_STATUS = 'APPROVED' THEN 1 ELSE 0 END) AS APPROVED_COUNT,
		SUM(CASE WHEN APP_STATUS = 'REJECTED' THEN 1 ELSE 0 END) AS REJECTED_COUNT,
		SUM(CASE WHEN APP_STATUS = 'IN_REVIEW' THEN 1 ELSE 0 END) AS IN_REVIEW_COUNT,
		SUM(CASE WHEN APP_STATUS = 'PENDING' THEN 1 ELSE 0 END) AS PENDING_COUNT,
		MAX(SUBMISSION_TIMESTAMP) AS LAST_SUBMISSION
		FROM %s WHERE CIS_CUSTOMER_NUMBER = ?`, table)
	return stmt, []interface{}{strings.ToUpper(cisNumber)}
}
