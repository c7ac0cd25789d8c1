package numerology

import "time"

const (
	firstCycleBase    = 37
	secondCycleLength = 27

	firstMomentSpan = 29
	momentSpan      = 9
)

// Period is a span of calendar years. Open-ended periods have no End.
type Period struct {
	Start     int
	End       int
	OpenEnded bool
}

// LifeCycle is one of the three successive life phases and the number ruling it.
type LifeCycle struct {
	Period
	Ruler int
}

// LifeCycles derives the three life cycles from the birth date and the Destiny number.
func LifeCycles(d BirthDate, destiny int) [3]LifeCycle {
	firstEnd := d.Year + (firstCycleBase - destiny)
	secondEnd := firstEnd + secondCycleLength
	return [3]LifeCycle{
		{Period: Period{Start: d.Year, End: firstEnd}, Ruler: Reduce(d.Month, false)},
		{Period: Period{Start: firstEnd, End: secondEnd}, Ruler: Reduce(d.Day, true)},
		{Period: Period{Start: secondEnd, OpenEnded: true}, Ruler: Reduce(d.Year, true)},
	}
}

// DecisiveMoments holds the four decisive moment numbers and the year spans they cover.
type DecisiveMoments struct {
	First   int
	Second  int
	Third   int
	Fourth  int
	Periods [4]Period
}

// Values returns the four moments in order.
func (m DecisiveMoments) Values() [4]int {
	return [4]int{m.First, m.Second, m.Third, m.Fourth}
}

// ComputeDecisiveMoments derives the moments from the digit sums of day, month and year.
func ComputeDecisiveMoments(d BirthDate) DecisiveMoments {
	day := DigitSum(d.Day)
	month := DigitSum(d.Month)
	year := DigitSum(d.Year)

	first := Reduce(day+month, false)
	second := Reduce(day+year, false)
	return DecisiveMoments{
		First:   first,
		Second:  second,
		Third:   Reduce(first+second, false),
		Fourth:  Reduce(month+year, false),
		Periods: momentPeriods(d.Year),
	}
}

func momentPeriods(year int) [4]Period {
	firstEnd := year + firstMomentSpan
	secondEnd := firstEnd + momentSpan
	thirdEnd := secondEnd + momentSpan
	return [4]Period{
		{Start: year, End: firstEnd},
		{Start: firstEnd, End: secondEnd},
		{Start: secondEnd, End: thirdEnd},
		{Start: thirdEnd, OpenEnded: true},
	}
}

// PersonalYear reduces the date of the most recent birthday anniversary relative to now.
// The anniversary counts as passed from its first instant.
func PersonalYear(d BirthDate, now time.Time) int {
	anniversary := LastAnniversary(d, now)
	return Reduce(anniversary.Day()+int(anniversary.Month())+anniversary.Year(), false)
}

// LastAnniversary returns the most recent anniversary of d on or before now, in now's location.
// Day and month overflow normalise the way time.Date does, so 29/02 falls on 01/03 in common years.
func LastAnniversary(d BirthDate, now time.Time) time.Time {
	anniversary := time.Date(now.Year(), time.Month(d.Month), d.Day, 0, 0, 0, 0, now.Location())
	if !now.Before(anniversary) {
		return anniversary
	}
	return time.Date(now.Year()-1, time.Month(d.Month), d.Day, 0, 0, 0, 0, now.Location())
}
