package model

import (
	"strings"
	"time"
)

// Notification is a raw notification event as delivered by the host platform.
// Optional text fields are nil when the platform did not supply them.
type Notification struct {
	ArrivalTime time.Time `json:"arrivalTime"`
	Title       *string   `json:"title,omitempty"`
	Text        *string   `json:"text,omitempty"`
	BigText     *string   `json:"bigText,omitempty"`
	SubText     *string   `json:"subText,omitempty"`
	SummaryText *string   `json:"summaryText,omitempty"`
	SourceID    string    `json:"sourceId"`
}

// ConsolidatedText joins every present text field with a single space, in
// title, text, big text, sub text, summary order.
func (n Notification) ConsolidatedText() string {
	parts := make([]string, 0, 5)
	for _, field := range []*string{n.Title, n.Text, n.BigText, n.SubText, n.SummaryText} {
		if field == nil || *field == "" {
			continue
		}
		parts = append(parts, *field)
	}
	return strings.Join(parts, " ")
}

// StringPtr returns a pointer to s. Handy for building notifications in code.
func StringPtr(s string) *string {
	return &s
}
