package extract

import (
	"context"
	"strings"
)

// KeyValue reads comma-separated key=value pairs. It never fails: missing
// numeric fields are 0 and missing strings are empty.
type KeyValue struct{}

// NewKeyValue creates a key-value extractor.
func NewKeyValue() *KeyValue {
	return &KeyValue{}
}

// Name identifies the strategy.
func (k *KeyValue) Name() string {
	return "key-value"
}

// Extract splits text on commas and each segment on its first '='. When text
// precedes a key ("Purchase merchant=Shop") only the last word is the key.
func (k *KeyValue) Extract(_ context.Context, text string) Result {
	record := make(map[string]any)

	for _, segment := range strings.Split(text, ",") {
		key, value, found := strings.Cut(segment, "=")
		if !found {
			continue
		}
		words := strings.Fields(key)
		if len(words) == 0 {
			continue
		}
		record[words[len(words)-1]] = strings.TrimSpace(value)
	}

	candidate := candidateFromRecord(record)

	if candidate.MerchantLat == nil {
		lat := 0.0
		candidate.MerchantLat = &lat
	}
	if candidate.MerchantLong == nil {
		long := 0.0
		candidate.MerchantLong = &long
	}
	if candidate.Category == nil {
		category := ""
		candidate.Category = &category
	}

	return Found(candidate)
}
