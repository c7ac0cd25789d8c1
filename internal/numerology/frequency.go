package numerology

const (
	digitCount         = 9
	tendencyOccurrence = 4
)

// KarmicLessons lists, in ascending order, the digits 1-9 that no letter of the name is worth.
func KarmicLessons(name string) []int {
	counts := letterValueCounts(name)
	lessons := make([]int, 0, digitCount)
	for digit := 1; digit <= digitCount; digit++ {
		if counts[digit] == 0 {
			lessons = append(lessons, digit)
		}
	}
	return lessons
}

// SubconsciousResponse is the number of digits 1-9 present in the name.
func SubconsciousResponse(name string) int {
	return subconsciousFromLessons(KarmicLessons(name))
}

func subconsciousFromLessons(lessons []int) int {
	return digitCount - len(lessons)
}

// HiddenTendencies lists, in ascending order, the digits 1-9 that at least four letters of the name are worth.
func HiddenTendencies(name string) []int {
	counts := letterValueCounts(name)
	tendencies := make([]int, 0, digitCount)
	for digit := 1; digit <= digitCount; digit++ {
		if counts[digit] >= tendencyOccurrence {
			tendencies = append(tendencies, digit)
		}
	}
	return tendencies
}

// letterValueCounts tallies how many letters of the name carry each value. Values above 9 (from the
// grave multiplier) are counted but never reported.
func letterValueCounts(name string) map[int]int {
	counts := make(map[int]int)
	for _, r := range composeName(name) {
		l := readLetter(r)
		if !l.nameLetter() {
			continue
		}
		counts[l.value()]++
	}
	return counts
}
