// Package window resolves named window tokens into concrete date intervals.
package window

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/adscope/ad-audit-api/internal/domain"
)

// Resolve maps a window token plus a reference date into an inclusive
// [start, end] interval. Resolution is pure: the same token and reference
// date always produce the same range.
//
// Supported tokens:
//   - Q1..Q4: calendar quarters of the reference year
//   - YTD: January 1 of the reference year through the reference date
//   - last_Nd: the trailing N days ending on the reference date
//   - this_month: first of the reference month through the reference date
//   - last_month: the full previous calendar month
func Resolve(token string, ref time.Time) (domain.DateRange, error) {
	ref = truncateToDay(ref)
	year := ref.Year()

	switch token {
	case "Q1":
		return quarter(year, 1), nil
	case "Q2":
		return quarter(year, 4), nil
	case "Q3":
		return quarter(year, 7), nil
	case "Q4":
		return quarter(year, 10), nil
	case "YTD":
		return domain.DateRange{
			Since: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			Until: ref,
		}, nil
	case "this_month":
		return domain.DateRange{
			Since: time.Date(year, ref.Month(), 1, 0, 0, 0, 0, time.UTC),
			Until: ref,
		}, nil
	case "last_month":
		firstOfThis := time.Date(year, ref.Month(), 1, 0, 0, 0, 0, time.UTC)
		lastOfPrev := firstOfThis.AddDate(0, 0, -1)
		return domain.DateRange{
			Since: time.Date(lastOfPrev.Year(), lastOfPrev.Month(), 1, 0, 0, 0, 0, time.UTC),
			Until: lastOfPrev,
		}, nil
	}

	if days, ok := parseTrailing(token); ok {
		return domain.DateRange{
			Since: ref.AddDate(0, 0, -(days - 1)),
			Until: ref,
		}, nil
	}

	return domain.DateRange{}, errors.Wrapf(domain.ErrInvalidWindow, "token %q", token)
}

// parseTrailing parses "last_Nd" tokens; N must be a positive integer.
func parseTrailing(token string) (int, bool) {
	if !strings.HasPrefix(token, "last_") || !strings.HasSuffix(token, "d") {
		return 0, false
	}

	body := strings.TrimSuffix(strings.TrimPrefix(token, "last_"), "d")
	days, err := strconv.Atoi(body)
	if err != nil || days <= 0 {
		return 0, false
	}

	return days, true
}

func quarter(year, startMonth int) domain.DateRange {
	since := time.Date(year, time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC)
	return domain.DateRange{
		Since: since,
		Until: since.AddDate(0, 3, -1),
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
