package util

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateSKU builds a stock-keeping unit code from a category prefix and a
// random suffix, e.g. "ELE4F9A1C". The caller is responsible for retrying on
// the (unlikely) unique-constraint collision.
func GenerateSKU(category string) string {
	prefix := strings.ToUpper(category)
	prefix = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, prefix)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	if prefix == "" {
		prefix = "SKU"
	}

	random := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:6]
	return prefix + random
}
