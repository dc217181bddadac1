package utils

import "time"

// ParseDate parses a YYYY-MM-DD string. An empty string yields the zero
// time, which callers use to detect an omitted field.
func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		parsed, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			return nil, err
		}
		date = parsed
	}

	return &date, nil
}
