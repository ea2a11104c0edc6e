package intent

import "strings"

// Category is the responder class a query is routed to.
type Category string

const (
	CategorySQL      Category = "sql"
	CategoryPolicy   Category = "policy"
	CategoryTravel   Category = "travel"
	CategoryInternet Category = "internet"
)

// Keyword sets are checked in declaration order and the first hit wins, so a
// query mentioning both "plan" and "policy" routes to sql. Callers depend on
// that precedence; do not reorder.
var (
	sqlKeywords = []string{
		"graph", "chart", "plot", "visual", "visualize",
		"recharge", "recharges", "sales", "amount",
		"customer", "plan",
	}
	policyKeywords = []string{
		"policy", "leave", "hr", "sop",
		"it policy", "security", "compliance",
	}
	travelKeywords = []string{
		"trip", "travel", "vacation",
		"itinerary", "tour",
	}
)

// Classify maps free-form query text to a Category by case-insensitive
// substring matching. Queries matching nothing default to internet search.
func Classify(text string) Category {
	q := strings.ToLower(text)

	if containsAny(q, sqlKeywords) {
		return CategorySQL
	}
	if containsAny(q, policyKeywords) {
		return CategoryPolicy
	}
	if containsAny(q, travelKeywords) {
		return CategoryTravel
	}
	return CategoryInternet
}

func containsAny(q string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}
