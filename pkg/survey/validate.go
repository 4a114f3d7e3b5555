package survey

import (
	"sort"
	"strconv"
	"strings"
)

// ParseScore converts entered text to a score. It reports false for text
// that is not an integer or an integer outside the answer scale.
func ParseScore(raw string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	if v < minScore || v > maxScore {
		return v, false
	}
	return v, true
}

// validateAnswers checks the held value of every index in one pass and
// collects all violations rather than stopping at the first.
func validateAnswers(page int, indices []int, value func(int) string) (map[int]int, error) {
	accepted := make(map[int]int, len(indices))
	var violations []Violation

	for _, idx := range indices {
		raw := value(idx)
		v, ok := ParseScore(raw)
		if !ok {
			violations = append(violations, Violation{Index: idx, Value: raw})
			continue
		}
		accepted[idx] = v
	}

	if len(violations) > 0 {
		sort.Slice(violations, func(i, j int) bool {
			return violations[i].Index < violations[j].Index
		})
		return nil, &ValidationError{Page: page, Violations: violations}
	}
	return accepted, nil
}
