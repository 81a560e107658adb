package submit

import "github.com/Veraticus/spicewatch/internal/model"

// request is the scoring service's wire shape.
type request struct {
	Transaction map[string]any `json:"transaction"`
	AccountID   string         `json:"accountId"`
}

// newRequest flattens txn into the scoring payload. Extra fields go first so
// the named members always win. A unix_time supplied by the notification is
// sent back as it arrived; otherwise the enrichment time in milliseconds is used.
func newRequest(txn model.EnrichedTransaction) request {
	c := txn.Candidate
	fields := make(map[string]any, len(c.ExtraFields)+9)
	for k, v := range c.ExtraFields {
		fields[k] = v
	}

	fields["merchant"] = c.Merchant
	fields["amt"] = c.Amount
	fields["trans_num"] = txn.TransactionID
	fields["unix_time"] = txn.Timestamp
	if c.UnixTime != 0 {
		fields["unix_time"] = c.UnixTime
	}
	if c.Category != nil {
		fields["category"] = *c.Category
	}
	if c.MerchantLat != nil {
		fields["merch_lat"] = *c.MerchantLat
	}
	if c.MerchantLong != nil {
		fields["merch_long"] = *c.MerchantLong
	}
	if txn.Latitude != nil {
		fields["lat"] = *txn.Latitude
	}
	if txn.Longitude != nil {
		fields["long"] = *txn.Longitude
	}

	return request{
		AccountID:   txn.AccountID,
		Transaction: fields,
	}
}
