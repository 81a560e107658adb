package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/spicewatch/internal/model"
)

// Field aliases accepted across strategies. The first alias wins when a
// record carries more than one.
var (
	merchantKeys      = []string{"merchant"}
	amountKeys        = []string{"amt", "amount"}
	categoryKeys      = []string{"category"}
	merchantLatKeys   = []string{"merch_lat", "merchantLat"}
	merchantLongKeys  = []string{"merch_long", "merchantLong"}
	transactionIDKeys = []string{"trans_num", "transactionId"}
	timestampKeys     = []string{"unix_time", "timestamp"}
)

var knownKeys = func() map[string]struct{} {
	known := make(map[string]struct{})
	for _, group := range [][]string{merchantKeys, amountKeys, categoryKeys, merchantLatKeys, merchantLongKeys, transactionIDKeys, timestampKeys} {
		for _, key := range group {
			known[key] = struct{}{}
		}
	}
	return known
}()

func lookup(record map[string]any, keys []string) (any, bool) {
	for _, key := range keys {
		if value, ok := record[key]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

// toFloat accepts JSON numbers and numeric strings.
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(v), "$")), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// candidateFromRecord maps a decoded object onto a candidate. Unknown members
// land in ExtraFields.
func candidateFromRecord(record map[string]any) model.Candidate {
	var c model.Candidate

	if v, ok := lookup(record, merchantKeys); ok {
		c.Merchant = toString(v)
	}
	if v, ok := lookup(record, amountKeys); ok {
		c.Amount, _ = toFloat(v)
	}
	if v, ok := lookup(record, categoryKeys); ok {
		if category := toString(v); category != "" {
			c.Category = &category
		}
	}
	if v, ok := lookup(record, merchantLatKeys); ok {
		if f, ok := toFloat(v); ok {
			c.MerchantLat = &f
		}
	}
	if v, ok := lookup(record, merchantLongKeys); ok {
		if f, ok := toFloat(v); ok {
			c.MerchantLong = &f
		}
	}
	if v, ok := lookup(record, transactionIDKeys); ok {
		c.TransactionID = toString(v)
	}
	if v, ok := lookup(record, timestampKeys); ok {
		if f, ok := toFloat(v); ok {
			c.UnixTime = int64(f)
			c.Timestamp = normalizeTimestamp(c.UnixTime)
		}
	}

	for key, value := range record {
		if _, known := knownKeys[key]; known {
			continue
		}
		if c.ExtraFields == nil {
			c.ExtraFields = make(map[string]any)
		}
		c.ExtraFields[key] = value
	}

	return c
}

// normalizeTimestamp turns unix seconds into milliseconds. Values already in
// milliseconds pass through.
func normalizeTimestamp(ts int64) int64 {
	if ts > 0 && ts < 100_000_000_000 {
		return ts * 1000
	}
	return ts
}
