package rules

import (
	"fmt"
	"sort"
	"strings"
)

// LegalityResult represents the result of a legality check.
type LegalityResult struct {
	Legal   bool
	Reason  string
	Details map[string]string
}

// Legal returns a passing result.
func Legal() LegalityResult {
	return LegalityResult{
		Legal:  true,
		Reason: "All legality checks passed",
	}
}

// Illegal returns a failing result. kv is read as alternating key/value
// pairs and stored in Details.
func Illegal(reason string, kv ...string) LegalityResult {
	result := LegalityResult{
		Legal:  false,
		Reason: reason,
	}
	if len(kv) > 0 {
		result.Details = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			result.Details[kv[i]] = kv[i+1]
		}
	}
	return result
}

// String renders the result with its details in key order.
func (r LegalityResult) String() string {
	if len(r.Details) == 0 {
		return r.Reason
	}
	keys := make([]string, 0, len(r.Details))
	for k := range r.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, r.Details[k]))
	}
	return fmt.Sprintf("%s (%s)", r.Reason, strings.Join(parts, ", "))
}

// Check is a single legality predicate.
type Check func() LegalityResult

// All evaluates checks in order and returns the first failure, or Legal.
func All(checks ...Check) LegalityResult {
	for _, check := range checks {
		if result := check(); !result.Legal {
			return result
		}
	}
	return Legal()
}
