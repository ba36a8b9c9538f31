// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cost

import (
	"strings"
	"time"

	"github.com/juju/errors"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"

	// trailingMonths is the number of complete months covered by the
	// six month reports.
	trailingMonths = 6
)

// Period is an inclusive range of calendar days, in UTC.
type Period struct {
	From time.Time
	To   time.Time
}

// String is part of the fmt.Stringer interface.
func (p Period) String() string {
	return p.From.Format(dateLayout) + ".." + p.To.Format(dateLayout)
}

// end returns the last instant of the period's final day.
func (p Period) end() time.Time {
	return p.To.Add(24*time.Hour - time.Second)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ParsePeriod parses an inclusive YYYY-MM-DD date range. An empty end
// means today.
func ParsePeriod(start, end string, now time.Time) (Period, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" {
		return Period{}, errors.NotValidf("empty start date")
	}
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return Period{}, errors.NotValidf("start date %q (expected YYYY-MM-DD)", start)
	}
	to := startOfDay(now)
	if end != "" {
		if to, err = time.Parse(dateLayout, end); err != nil {
			return Period{}, errors.NotValidf("end date %q (expected YYYY-MM-DD)", end)
		}
	}
	if to.Before(from) {
		return Period{}, errors.NotValidf("end date %s before start date %s", to.Format(dateLayout), start)
	}
	return Period{From: from, To: to}, nil
}

// Month is one calendar month.
type Month struct {
	Key    string
	Period Period
}

// LastSixMonths returns the six complete calendar months before the month
// holding now, oldest first.
func LastSixMonths(now time.Time) []Month {
	current := startOfMonth(now)
	months := make([]Month, 0, trailingMonths)
	for i := trailingMonths; i > 0; i-- {
		first := current.AddDate(0, -i, 0)
		last := first.AddDate(0, 1, -1)
		months = append(months, Month{
			Key:    first.Format(monthLayout),
			Period: Period{From: first, To: last},
		})
	}
	return months
}

// lastSixMonthsPeriod returns the single period spanned by LastSixMonths.
func lastSixMonthsPeriod(now time.Time) Period {
	months := LastSixMonths(now)
	return Period{From: months[0].Period.From, To: months[len(months)-1].Period.To}
}
