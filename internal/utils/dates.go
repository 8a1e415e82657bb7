package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar day with no time of day or zone.
type Date struct {
	Year  int
	Month int
	Day   int
}

// DateDifference is a loan length in whole months plus leftover days.
type DateDifference struct {
	Months int
	Days   int
}

// ParseDate reads a yyyy-mm-dd string.
func ParseDate(s string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd")
	}

	var nums [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Date{}, fmt.Errorf("invalid date %q: %v", s, err)
		}
		nums[i] = n
	}

	d := Date{Year: nums[0], Month: nums[1], Day: nums[2]}
	if d.Month < 1 || d.Month > 12 {
		return Date{}, fmt.Errorf("month must be between 1 and 12")
	}
	if d.Day < 1 || d.Day > DaysInMonth(d.Year, d.Month) {
		return Date{}, fmt.Errorf("day must be between 1 and %d", DaysInMonth(d.Year, d.Month))
	}
	return d, nil
}

// DateOf takes the UTC calendar day of t.
func DateOf(t time.Time) Date {
	t = t.UTC()
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// Time is midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

func DaysInMonth(year, month int) int {
	switch month {
	case 2:
		if (year%4 == 0 && year%100 != 0) || year%400 == 0 {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// CalculateDateDifference counts both the start and the end day.
func CalculateDateDifference(start, end Date) (DateDifference, error) {
	if end.Before(start) {
		return DateDifference{}, fmt.Errorf("end date must be >= start date")
	}

	months := (end.Year-start.Year)*12 + end.Month - start.Month
	days := end.Day - start.Day + 1

	if days < 0 {
		months--
		prevYear, prevMonth := end.Year, end.Month-1
		if prevMonth < 1 {
			prevYear, prevMonth = prevYear-1, 12
		}
		days += DaysInMonth(prevYear, prevMonth)
	}
	return DateDifference{Months: months, Days: days}, nil
}

// LoanSpan is the inclusive length of a loan from its borrow date to its return date.
func LoanSpan(borrowed, returned time.Time) (DateDifference, error) {
	return CalculateDateDifference(DateOf(borrowed), DateOf(returned))
}

func (d DateDifference) String() string {
	var parts []string
	if d.Months > 0 {
		parts = append(parts, plural(d.Months, "month"))
	}
	if d.Days > 0 || len(parts) == 0 {
		parts = append(parts, plural(d.Days, "day"))
	}
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// DaysBetween counts calendar days from start to end. It is negative when end is earlier.
func DaysBetween(start, end time.Time) int {
	return int(DateOf(end).Time().Sub(DateOf(start).Time()).Hours() / 24)
}

// DaysOverdue is how many calendar days now is past due, or 0.
func DaysOverdue(due, now time.Time) int {
	if n := DaysBetween(due, now); n > 0 {
		return n
	}
	return 0
}
