package models

import "time"

// OverviewStats represents table-wide aggregate measures. Pointer fields are
// NULL on an empty table.
type OverviewStats struct {
	TotalApplications    int64    `json:"total_applications" db:"TOTAL_APPLICATIONS"`
	TotalRequestedAmount *float64 `json:"total_requested_amount" db:"TOTAL_REQUESTED_AMOUNT"`
	AvgRequestedAmount   *float64 `json:"avg_requested_amount" db:"AVG_REQUESTED_AMOUNT"`
	MinRequestedAmount   *float64 `json:"min_requested_amount" db:"MIN_REQUESTED_AMOUNT"`
	MaxRequestedAmount   *float64 `json:"max_requested_amount" db:"MAX_REQUESTED_AMOUNT"`
	AvgCreditScore       *float64 `json:"avg_credit_score" db:"AVG_CREDIT_SCORE"`
}

// StatusStats represents aggregate measures for one status group.
type StatusStats struct {
	AppStatus          *string  `json:"app_status" db:"APP_STATUS"`
	ApplicationCount   int64    `json:"application_count" db:"APPLICATION_COUNT"`
	AvgRequestedAmount *float64 `json:"avg_requested_amount" db:"AVG_REQUESTED_AMOUNT"`
	AvgCreditScore     *float64 `json:"avg_credit_score" db:"AVG_CREDIT_SCORE"`
}

// ProductStats represents aggregate measures for one requested product.
type ProductStats struct {
	ProductCode          *string  `json:"product_code" db:"PRODUCT_CODE"`
	ProductName          *string  `json:"product_name" db:"PRODUCT_NAME"`
	ApplicationCount     int64    `json:"application_count" db:"APPLICATION_COUNT"`
	TotalRequestedAmount *float64 `json:"total_requested_amount" db:"TOTAL_REQUESTED_AMOUNT"`
	AvgRequestedAmount   *float64 `json:"avg_requested_amount" db:"AVG_REQUESTED_AMOUNT"`
}

// CustomerSummary represents the per-customer aggregate view.
type CustomerSummary struct {
	CISCustomerNumber    string     `json:"cis_customer_number" db:"-"`
	TotalApplications    int64      `json:"total_applications" db:"TOTAL_APPLICATIONS"`
	TotalRequestedAmount *float64   `json:"total_requested_amount" db:"TOTAL_REQUESTED_AMOUNT"`
	AvgRequestedAmount   *float64   `json:"avg_requested_amount" db:"AVG_REQUESTED_AMOUNT"`
	ApprovedCount        *int64     `json:"approved_count" db:"APPROVED_COUNT"`
	RejectedCount        *int64     `json:"rejected_count" db:"REJECTED_COUNT"`
	InReviewCount        *int64     `json:"in_review_count" db:"IN_REVIEW_COUNT"`
	PendingCount         *int64     `json:"pending_count" db:"PENDING_COUNT"`
	LastSubmission       *time.Time `json:"last_submission" db:"LAST_SUBMISSION"`
}

// StoreInfo describes the configured store target and its current size.
// Credentials are never part of this value.
type StoreInfo struct {
	Target   string `json:"target"`
	Schema   string `json:"schema"`
	Table    string `json:"table"`
	RowCount int64  `json:"row_count"`
}
