package numerology

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidBirthDate is returned when a birth date string does not carry three numeric DD/MM/YYYY tokens.
var ErrInvalidBirthDate = errors.New("numerology: invalid birth date")

// BirthDate holds the numeric components of a DD/MM/YYYY date. Calendar validity is not checked.
type BirthDate struct {
	Day   int
	Month int
	Year  int
}

// ParseBirthDate splits a DD/MM/YYYY string into its components.
func ParseBirthDate(value string) (BirthDate, error) {
	parts := strings.Split(strings.TrimSpace(value), "/")
	if len(parts) != 3 {
		return BirthDate{}, fmt.Errorf("%w: %q", ErrInvalidBirthDate, value)
	}
	var fields [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return BirthDate{}, fmt.Errorf("%w: %q", ErrInvalidBirthDate, value)
		}
		fields[i] = n
	}
	return BirthDate{Day: fields[0], Month: fields[1], Year: fields[2]}, nil
}

// String formats the date back to DD/MM/YYYY.
func (d BirthDate) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}

// Destiny reduces the whole-number sum of day, month and year, keeping master numbers.
func Destiny(d BirthDate) int {
	return Reduce(d.Day+d.Month+d.Year, true)
}

// Mission combines Expression and Destiny, keeping master numbers.
func Mission(expression, destiny int) int {
	return Reduce(expression+destiny, true)
}

// HiddenTalent combines Motivation and Expression.
func HiddenTalent(motivation, expression int) int {
	return Reduce(motivation+expression, false)
}

// BirthDay is the unreduced day of the month.
func BirthDay(d BirthDate) int {
	return d.Day
}

// PsychicNumber is the reduced day of the month.
func PsychicNumber(d BirthDate) int {
	return Reduce(d.Day, false)
}

// LoveNumber combines Expression and Destiny without master numbers.
func LoveNumber(expression, destiny int) int {
	return Reduce(expression+destiny, false)
}

// FavorableColor is the reduced day of the month.
func FavorableColor(d BirthDate) int {
	return Reduce(d.Day, false)
}

// Challenges holds the two partial challenges and the main challenge.
type Challenges struct {
	First  int
	Second int
	Main   int
}

// ComputeChallenges derives the challenges from the reduced day, month and year.
func ComputeChallenges(d BirthDate) Challenges {
	day := Reduce(d.Day, false)
	month := Reduce(d.Month, false)
	year := Reduce(d.Year, false)
	first := abs(day - month)
	second := abs(year - day)
	return Challenges{
		First:  first,
		Second: second,
		Main:   abs(first - second),
	}
}

// KarmicDebts unions the debts triggered by the birth day itself with those triggered by the
// Destiny, Motivation and Expression numbers. Order follows first occurrence.
func KarmicDebts(d BirthDate, destiny, motivation, expression int) []int {
	debts := make([]int, 0, 4)
	seen := make(map[int]struct{}, 4)
	add := func(debt int) {
		if _, ok := seen[debt]; ok {
			return
		}
		seen[debt] = struct{}{}
		debts = append(debts, debt)
	}

	if isDebtDay(d.Day) {
		add(d.Day)
	}
	for _, number := range []int{destiny, motivation, expression} {
		if debt, ok := debtForNumber(number); ok {
			add(debt)
		}
	}
	return debts
}

func isDebtDay(day int) bool {
	switch day {
	case 13, 14, 16, 19:
		return true
	}
	return false
}

func debtForNumber(number int) (int, bool) {
	switch number {
	case 4:
		return 13, true
	case 5:
		return 14, true
	case 7:
		return 16, true
	case 1:
		return 19, true
	}
	return 0, false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
