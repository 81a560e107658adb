package model

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrEmptyAccountID is returned when an enriched transaction is built without an account.
var ErrEmptyAccountID = errors.New("account id cannot be empty")

// Candidate is a provisional transaction extracted from notification text.
// Optional fields are nil when the extraction strategy did not produce them.
type Candidate struct {
	ExtraFields   map[string]any
	Category      *string
	MerchantLat   *float64
	MerchantLong  *float64
	TransactionID string // Supplied by the source text, rarely present
	Timestamp     int64  // Unix milliseconds, zero when not supplied
	UnixTime      int64  // Supplied unix_time in its original unit, forwarded unchanged
	Merchant      string
	Amount        float64
}

// canonicalCandidate fixes field names and order for hashing. encoding/json sorts
// map keys, so ExtraFields serialize deterministically too.
type canonicalCandidate struct {
	Extra         map[string]any `json:"extra,omitempty"`
	Category      *string        `json:"category,omitempty"`
	MerchantLat   *float64       `json:"merchantLat,omitempty"`
	MerchantLong  *float64       `json:"merchantLong,omitempty"`
	TransactionID string         `json:"transactionId,omitempty"`
	Merchant      string         `json:"merchant"`
	Amount        float64        `json:"amount"`
	Timestamp     int64          `json:"timestamp,omitempty"`
}

// DedupeKey returns a hex SHA-256 over the canonical serialization of the
// candidate's extracted content. Whitespace and field order in the source text
// do not affect the key.
func (c Candidate) DedupeKey() string {
	data, err := json.Marshal(canonicalCandidate{
		Extra:         c.ExtraFields,
		Category:      c.Category,
		MerchantLat:   c.MerchantLat,
		MerchantLong:  c.MerchantLong,
		TransactionID: c.TransactionID,
		Merchant:      c.Merchant,
		Amount:        c.Amount,
		Timestamp:     c.Timestamp,
	})
	if err != nil {
		// Extra fields that cannot be marshaled still need a stable key.
		data = []byte(fmt.Sprintf("%s:%.4f:%v:%s:%d", c.Merchant, c.Amount, c.ExtraFields, c.TransactionID, c.Timestamp))
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// EnrichedTransaction is a candidate ready for submission.
type EnrichedTransaction struct {
	Latitude      *float64
	Longitude     *float64
	AccountID     string
	TransactionID string
	Candidate     Candidate
	Timestamp     int64 // Unix milliseconds
}

// NewEnrichedTransaction builds an enriched transaction, refusing an empty account.
func NewEnrichedTransaction(accountID, transactionID string, timestamp time.Time, candidate Candidate) (EnrichedTransaction, error) {
	if accountID == "" {
		return EnrichedTransaction{}, ErrEmptyAccountID
	}
	return EnrichedTransaction{
		AccountID:     accountID,
		TransactionID: transactionID,
		Timestamp:     timestamp.UnixMilli(),
		Candidate:     candidate,
	}, nil
}

// WithLocation attaches device coordinates.
func (t EnrichedTransaction) WithLocation(lat, long float64) EnrichedTransaction {
	t.Latitude = &lat
	t.Longitude = &long
	return t
}
