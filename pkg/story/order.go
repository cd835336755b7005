package story

import (
	"math"
	"sort"
	"strconv"
)

// SortIDs sorts ids in place into the deterministic listing order:
//
//  1. Numeric ids (non-empty, decimal digits only) ascending by integer value.
//  2. Non-numeric ids afterwards, lexicographically.
//
// A numeric id whose value overflows int64 is given the maximum sort key
// instead of failing, so it lands after all normally parsed numeric ids.
// Ties on the sort key are always broken lexicographically.
func SortIDs(ids []string) {
	keys := make(map[string]int64, len(ids))
	for _, id := range ids {
		keys[id] = sortKey(id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		if keys[a] != keys[b] {
			return keys[a] < keys[b]
		}
		return a < b
	})
}

// sortKey maps an id to its numeric sort key. Non-numeric ids and numeric
// ids that overflow int64 share the maximum key.
func sortKey(id string) int64 {
	if !isDigits(id) {
		return math.MaxInt64
	}
	v, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return math.MaxInt64
	}
	return v
}

// isDigits reports whether s is non-empty and consists only of decimal digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
