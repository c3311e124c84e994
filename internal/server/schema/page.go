package schema

import "strconv"

// ParsePage parses a page number from a query string. An empty string means
// no page; anything else must be an integer >= 1.
func ParsePage(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	p, err := strconv.Atoi(raw)
	if err != nil {
		return nil, Invalid("page", "must be an integer")
	}
	if p < 1 {
		return nil, Invalid("page", "must be greater than or equal to 1")
	}
	return &p, nil
}
