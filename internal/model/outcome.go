package model

import "time"

// Score is the scoring service's verdict on a submitted transaction.
type Score struct {
	FraudScore     *float64 `json:"fraudScore,omitempty"`
	FraudThreshold *float64 `json:"fraudThreshold,omitempty"`
	Prediction     any      `json:"prediction,omitempty"`
}

// SubmissionOutcome reports how a single submission went.
type SubmissionOutcome struct {
	Score      *Score
	Message    string
	StatusCode int
	Succeeded  bool
}

// StatusEvent is a human-readable (title, text) pair for the UI layer.
type StatusEvent struct {
	At    time.Time `json:"at"`
	Title string    `json:"title"`
	Text  string    `json:"text"`
}

// Status event titles.
const (
	TitleProcessed = "Transaction Processed"
	TitleFailed    = "Transaction Failed"
	TitleDebug     = "Notification Debug"
)

// SubmissionRecord is a journaled submission outcome.
type SubmissionRecord struct {
	SubmittedAt   time.Time
	FraudScore    *float64
	TransactionID string
	AccountID     string
	Merchant      string
	Message       string
	ID            int64
	Amount        float64
	StatusCode    int
	Succeeded     bool
}
