package forms

import (
	"math"
	"strings"
)

// MissingFields returns the required fields the answers do not satisfy, in
// RequiredFields order. Pure function: same answers in, same list out.
func MissingFields(a Answers) []string {
	var missing []string
	for _, field := range RequiredFields {
		if !present(a.fieldValue(field)) {
			missing = append(missing, field)
		}
	}
	return missing
}

// Complete reports whether every required field is answered.
func Complete(a Answers) bool {
	return len(MissingFields(a)) == 0
}

// present defines what counts as an answer: a non-empty trimmed string, a
// finite number, any boolean, a non-empty slice. nil and everything else is
// missing.
func present(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case bool:
		return true
	case int:
		return true
	case float64:
		return !math.IsNaN(val) && !math.IsInf(val, 0)
	case []string:
		return len(val) > 0
	default:
		return false
	}
}
