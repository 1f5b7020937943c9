package order

import (
	"regexp"
	"strings"

	"boutique-storefront/internal/domain"
)

// BuildPayload aggregates quantities per product across size/color variants,
// keeping first-seen product order and dropping non-positive totals.
func BuildPayload(lines []domain.CartLine) domain.OrderPayload {
	counts := make(map[string]int, len(lines))
	var order []string
	for _, l := range lines {
		if _, ok := counts[l.ProductID]; !ok {
			order = append(order, l.ProductID)
		}
		counts[l.ProductID] += l.Qty
	}

	payload := domain.OrderPayload{Data: make([]domain.OrderLine, 0, len(order))}
	for _, id := range order {
		if counts[id] > 0 {
			payload.Data = append(payload.Data, domain.OrderLine{ProductID: id, Count: counts[id]})
		}
	}
	return payload
}

var nameSeparators = regexp.MustCompile(`[\n,|]+`)

// ParseUnavailableNames splits the conflict "products" text into names.
func ParseUnavailableNames(products string) []string {
	var names []string
	for _, part := range nameSeparators.Split(products, -1) {
		if n := strings.TrimSpace(part); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// WithoutUnavailable drops lines whose name contains any of names. Matching
// is by substring, so "Dress" also removes "Dress A"; with no names every
// line is kept.
func WithoutUnavailable(lines []domain.CartLine, names []string) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		if !matchesAny(l.Name, names) {
			out = append(out, l)
		}
	}
	return out
}

// UnavailableKeys returns the keys of lines WithoutUnavailable would drop.
func UnavailableKeys(lines []domain.CartLine, names []string) []string {
	var keys []string
	for _, l := range lines {
		if matchesAny(l.Name, names) {
			keys = append(keys, l.Key)
		}
	}
	return keys
}

func matchesAny(name string, names []string) bool {
	for _, n := range names {
		if strings.Contains(name, n) {
			return true
		}
	}
	return false
}
