package model

import "fmt"

// Period selects the trailing window of an indicator query.
type Period string

const (
	Period1M Period = "1m"
	Period3M Period = "3m"
	Period6M Period = "6m"
	Period1Y Period = "1y"
	Period3Y Period = "3y"
	Period5Y Period = "5y"
)

// AllPeriods lists every period the backend accepts, shortest first.
var AllPeriods = []Period{Period1M, Period3M, Period6M, Period1Y, Period3Y, Period5Y}

var periodDays = map[Period]int{
	Period1M: 30,
	Period3M: 90,
	Period6M: 180,
	Period1Y: 365,
	Period3Y: 365 * 3,
	Period5Y: 365 * 5,
}

// ParsePeriod validates a period token.
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if _, ok := periodDays[p]; !ok {
		return "", fmt.Errorf("unknown period %q (want one of 1m,3m,6m,1y,3y,5y)", s)
	}
	return p, nil
}

// Days returns the length of the window in days, or 0 for an unknown period.
func (p Period) Days() int { return periodDays[p] }

func (p Period) String() string { return string(p) }
