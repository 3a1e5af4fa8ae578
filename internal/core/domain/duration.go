package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const defaultServiceDays = 30

var leadingNumber = regexp.MustCompile(`\d+`)

// ServiceDuration is a parsed purchase duration descriptor.
type ServiceDuration struct {
	Years  int
	Months int
	Days   int
}

// ParseServiceDuration interprets descriptors such as "3 months", "1 year"
// or "45". Text containing "month" counts months and text containing "year"
// counts years; anything else is a day count. A missing count means 1 month
// or 1 year; an unparseable day count falls back to 30 days.
func ParseServiceDuration(descriptor string) ServiceDuration {
	text := strings.ToLower(strings.TrimSpace(descriptor))

	n := 0
	if m := leadingNumber.FindString(text); m != "" {
		if parsed, err := strconv.Atoi(m); err == nil {
			n = parsed
		}
	}

	switch {
	case strings.Contains(text, "month"):
		if n <= 0 {
			n = 1
		}
		return ServiceDuration{Months: n}
	case strings.Contains(text, "year"):
		if n <= 0 {
			n = 1
		}
		return ServiceDuration{Years: n}
	default:
		if n <= 0 {
			n = defaultServiceDays
		}
		return ServiceDuration{Days: n}
	}
}

// AddTo returns t advanced by the duration.
func (d ServiceDuration) AddTo(t time.Time) time.Time {
	return t.AddDate(d.Years, d.Months, d.Days)
}
