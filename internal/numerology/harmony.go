package numerology

// Harmony describes how a Love Number relates to the other numbers.
type Harmony struct {
	Number       int
	VibratesWith []int
	Attracts     []int
	// Opposite is nil for 9, which has no opposites.
	Opposite []int
	Passive  []int
}

var harmonyTable = map[int]Harmony{
	1: {VibratesWith: []int{9}, Attracts: []int{4, 8}, Opposite: []int{6, 7}, Passive: []int{2, 3, 5}},
	2: {VibratesWith: []int{8}, Attracts: []int{7, 9}, Opposite: []int{5}, Passive: []int{1, 3, 4, 6}},
	3: {VibratesWith: []int{7}, Attracts: []int{5, 6, 9}, Opposite: []int{4, 8}, Passive: []int{1, 2}},
	4: {VibratesWith: []int{6}, Attracts: []int{1, 8}, Opposite: []int{3, 5}, Passive: []int{2, 7, 9}},
	5: {VibratesWith: []int{5}, Attracts: []int{3, 9}, Opposite: []int{2, 4, 6}, Passive: []int{1, 7, 8}},
	6: {VibratesWith: []int{4}, Attracts: []int{3, 7, 9}, Opposite: []int{1, 5, 8}, Passive: []int{2}},
	7: {VibratesWith: []int{3}, Attracts: []int{2, 6}, Opposite: []int{1, 9}, Passive: []int{4, 5, 8}},
	8: {VibratesWith: []int{2}, Attracts: []int{1, 4}, Opposite: []int{3, 6}, Passive: []int{5, 7, 9}},
	9: {VibratesWith: []int{1}, Attracts: []int{2, 3, 5, 6}, Passive: []int{4, 8}},
}

// MaritalHarmony looks up the harmony entry for a Love Number. The returned slices are copies.
func MaritalHarmony(loveNumber int) (Harmony, bool) {
	entry, ok := harmonyTable[loveNumber]
	if !ok {
		return Harmony{}, false
	}
	return Harmony{
		Number:       loveNumber,
		VibratesWith: cloneInts(entry.VibratesWith),
		Attracts:     cloneInts(entry.Attracts),
		Opposite:     cloneInts(entry.Opposite),
		Passive:      cloneInts(entry.Passive),
	}, true
}

// ProfessionalAptitude is the Expression number itself.
func ProfessionalAptitude(expression int) int {
	return expression
}

func cloneInts(values []int) []int {
	if values == nil {
		return nil
	}
	out := make([]int, len(values))
	copy(out, values)
	return out
}
