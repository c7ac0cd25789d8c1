package numerology

import "strings"

// Expression returns the Expression number of the full name. The letter-sum path is used unless it
// lands on 2 or 4, in which case the word-by-word path replaces it.
func Expression(name string) int {
	primary := ExpressionFromLetters(name)
	if !requiresWordReduction(primary) {
		return primary
	}
	return ExpressionFromWords(name)
}

// ExpressionFromLetters sums every non-whitespace character of the name and reduces the total,
// keeping master numbers.
func ExpressionFromLetters(name string) int {
	sum := 0
	for _, r := range composeName(name) {
		if isSpace(r) {
			continue
		}
		sum += LetterValue(r)
	}
	return Reduce(sum, true)
}

// ExpressionFromWords reduces each word on its own (without master numbers), then reduces the
// sum of the words keeping master numbers.
func ExpressionFromWords(name string) int {
	total := 0
	for _, word := range strings.Fields(composeName(name)) {
		total += Reduce(letterSum(word), false)
	}
	return Reduce(total, true)
}

func requiresWordReduction(expression int) bool {
	return expression == 2 || expression == 4
}

// Motivation sums the vowels of the name (A, E, I, O, U and Y, accented or not).
func Motivation(name string) int {
	sum := 0
	for _, r := range composeName(name) {
		if l := readLetter(r); l.vowel() {
			sum += l.value()
		}
	}
	return Reduce(sum, false)
}

// Impression sums the consonants of the name. Y is treated as a consonant as well as a vowel.
func Impression(name string) int {
	sum := 0
	for _, r := range composeName(name) {
		if l := readLetter(r); l.consonant() {
			sum += l.value()
		}
	}
	return Reduce(sum, false)
}

func letterSum(word string) int {
	sum := 0
	for _, r := range word {
		sum += LetterValue(r)
	}
	return sum
}
