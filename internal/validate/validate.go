package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// ID validates a resource identifier (uuid or seed id).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 100 {
		return "", false
	}
	return s, true
}

// Password enforces a minimum length; the hash caps the effective maximum.
func Password(s string) bool {
	return len(s) >= 8 && len(s) <= 72
}

// Qty clamps a quantity string into [1,50].
func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	}
	return n
}

// Price parses a non-negative price; ok is false for junk or negatives.
func Price(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return f, true
}

// ProductStatus validates the listing lifecycle enum.
func ProductStatus(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "available", "sold", "donated", "exchanged":
		return s, true
	}
	return "", false
}

// TxStatus validates the transaction lifecycle enum.
func TxStatus(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "pending", "completed", "cancelled":
		return s, true
	}
	return "", false
}

// SortBy maps a requested sort key onto a safe column name.
func SortBy(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "price":
		return "price"
	case "name":
		return "name"
	default:
		return "created_at"
	}
}

// Order normalizes a sort direction, defaulting to DESC.
func Order(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), "ASC") {
		return "ASC"
	}
	return "DESC"
}

// ImageExt whitelists upload extensions (lowercased, dot included).
func ImageExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}
