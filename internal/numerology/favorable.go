package numerology

import (
	"sort"
	"strconv"
	"strings"
)

const lastDayOfMonth = 31

type monthDay struct {
	month int
	day   int
}

var basicDaysByDate = map[monthDay][2]int{
	{month: 1, day: 14}: {5, 6},
	{month: 5, day: 31}: {1, 5},
	{month: 11, day: 2}: {1, 7},
}

var defaultBasicDays = [2]int{1, 2}

// BasicDays returns the pair of basic days for the birth month and day, defaulting to 1 and 2.
func BasicDays(d BirthDate) [2]int {
	if pair, ok := basicDaysByDate[monthDay{month: d.Month, day: d.Day}]; ok {
		return pair
	}
	return defaultBasicDays
}

// FavorableDayList expands the basic pair into the favourable days of a month: both basic days,
// twice the second, then the running value advanced alternately by the first and second basic day
// until it passes the 31st. The result is ascending and free of duplicates.
func FavorableDayList(d BirthDate) []int {
	pair := BasicDays(d)
	first, second := pair[0], pair[1]

	days := []int{first, second}
	last := second * 2
	if last <= lastDayOfMonth && !containsInt(days, last) {
		days = append(days, last)
	}

	steps := [2]int{first, second}
	for i := 0; ; i++ {
		next := last + steps[i%2]
		if next > lastDayOfMonth || next <= last {
			break
		}
		days = append(days, next)
		last = next
	}
	return sortedUnique(days)
}

// FavorableDays renders FavorableDayList as a comma-separated string.
func FavorableDays(d BirthDate) string {
	days := FavorableDayList(d)
	parts := make([]string, len(days))
	for i, day := range days {
		parts[i] = strconv.Itoa(day)
	}
	return strings.Join(parts, ",")
}

func containsInt(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func sortedUnique(values []int) []int {
	seen := make(map[int]struct{}, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
