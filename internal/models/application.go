package models

import "time"

// Application statuses accepted by status-changing operations.
const (
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusInReview = "IN_REVIEW"
	StatusPending  = "PENDING"
)

// Statuses lists every valid APP_STATUS value.
var Statuses = []string{StatusApproved, StatusRejected, StatusInReview, StatusPending}

// IsValidStatus reports whether s is a member of the status enumeration.
// Callers are expected to uppercase s first.
func IsValidStatus(s string) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// CreditApplication represents one row of the credit-applications table.
// APP_REF is the natural key; every other column is nullable.
type CreditApplication struct {
	AppRef              string     `json:"app_ref" db:"APP_REF"`
	AppStatus           *string    `json:"app_status" db:"APP_STATUS"`
	AppPurpose          *string    `json:"app_purpose" db:"APP_PURPOSE"`
	AppChannel          *string    `json:"app_channel" db:"APP_CHANNEL"`
	SubmissionTimestamp *time.Time `json:"submission_timestamp" db:"SUBMISSION_TIMESTAMP"`
	DecisionTimestamp   *time.Time `json:"decision_timestamp" db:"DECISION_TIMESTAMP"`

	ProductCode         *string  `json:"product_code" db:"PRODUCT_CODE"`
	ProductName         *string  `json:"product_name" db:"PRODUCT_NAME"`
	ProductType         *string  `json:"product_type" db:"PRODUCT_TYPE"`
	RequestedAmount     *float64 `json:"requested_amount" db:"REQUESTED_AMOUNT"`
	RequestedTermMonths *int     `json:"requested_term_months" db:"REQUESTED_TERM_MONTHS"`
	Currency            *string  `json:"currency" db:"CURRENCY"`
	MinProductAmount    *float64 `json:"min_product_amount" db:"MIN_PRODUCT_AMOUNT"`
	MaxProductAmount    *float64 `json:"max_product_amount" db:"MAX_PRODUCT_AMOUNT"`
	MinTermMonths       *int     `json:"min_term_months" db:"MIN_TERM_MONTHS"`
	MaxTermMonths       *int     `json:"max_term_months" db:"MAX_TERM_MONTHS"`
	BaseRate            *float64 `json:"base_rate" db:"BASE_RATE"`

	CISCustomerNumber   *string    `json:"cis_customer_number" db:"CIS_CUSTOMER_NUMBER"`
	Title               *string    `json:"title" db:"TITLE"`
	FirstName           *string    `json:"first_name" db:"FIRST_NAME"`
	LastName            *string    `json:"last_name" db:"LAST_NAME"`
	DateOfBirth         *time.Time `json:"date_of_birth" db:"DATE_OF_BIRTH"`
	Email               *string    `json:"email" db:"EMAIL"`
	PhoneNumber         *string    `json:"phone_number" db:"PHONE_NUMBER"`
	Postcode            *string    `json:"postcode" db:"POSTCODE"`
	CustomerSegment     *string    `json:"customer_segment" db:"CUSTOMER_SEGMENT"`
	CustomerRiskRating  *string    `json:"customer_risk_rating" db:"CUSTOMER_RISK_RATING"`
	ResidentialStatus   *string    `json:"residential_status" db:"RESIDENTIAL_STATUS"`
	EmploymentStatus    *string    `json:"employment_status" db:"EMPLOYMENT_STATUS"`
	EmployerName        *string    `json:"employer_name" db:"EMPLOYER_NAME"`
	TimeAtAddressMonths *int       `json:"time_at_address_months" db:"TIME_AT_ADDRESS_MONTHS"`

	AnnualIncome         *float64 `json:"annual_income" db:"ANNUAL_INCOME"`
	MonthlyExpenditure   *float64 `json:"monthly_expenditure" db:"MONTHLY_EXPENDITURE"`
	ExistingMonthlyDebt  *float64 `json:"existing_monthly_debt" db:"EXISTING_MONTHLY_DEBT"`
	AccountTenureMonths  *int     `json:"account_tenure_months" db:"ACCOUNT_TENURE_MONTHS"`
	AverageBalance3M     *float64 `json:"average_balance_3m" db:"AVERAGE_BALANCE_3M"`
	OverdraftLimit       *float64 `json:"overdraft_limit" db:"OVERDRAFT_LIMIT"`
	OverdraftUtilization *float64 `json:"overdraft_utilization" db:"OVERDRAFT_UTILIZATION"`
	MissedPayments12M    *int     `json:"missed_payments_12m" db:"MISSED_PAYMENTS_12M"`
	CCJCount             *int     `json:"ccj_count" db:"CCJ_COUNT"`
	DefaultsCount        *int     `json:"defaults_count" db:"DEFAULTS_COUNT"`

	ScoreProvider             *string `json:"score_provider" db:"SCORE_PROVIDER"`
	CreditScore               *int    `json:"credit_score" db:"CREDIT_SCORE"`
	ScoreBand                 *string `json:"score_band" db:"SCORE_BAND"`
	EligibleFlag              *string `json:"eligible_flag" db:"ELIGIBLE_FLAG"`
	EligibilityFailureReasons *string `json:"eligibility_failure_reasons" db:"ELIGIBILITY_FAILURE_REASONS"`

	RecommendedProductCode   *string  `json:"recommended_product_code" db:"RECOMMENDED_PRODUCT_CODE"`
	RecommendedProductName   *string  `json:"recommended_product_name" db:"RECOMMENDED_PRODUCT_NAME"`
	RecommendedAmount        *float64 `json:"recommended_amount" db:"RECOMMENDED_AMOUNT"`
	RecommendedTermMonths    *int     `json:"recommended_term_months" db:"RECOMMENDED_TERM_MONTHS"`
	RecommendedAPR           *float64 `json:"recommended_apr" db:"RECOMMENDED_APR"`
	RecommendationConditions *string  `json:"recommendation_conditions" db:"RECOMMENDATION_CONDITIONS"`
	RecommendationRationale  *string  `json:"recommendation_rationale" db:"RECOMMENDATION_RATIONALE"`
}
