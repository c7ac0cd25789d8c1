package numerology

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const (
	markGrave      = '\u0300'
	markAcute      = '\u0301'
	markCircumflex = '\u0302'
	markTilde      = '\u0303'

	cedillaValue = 6
)

// letterValues maps uppercase base letters to their numeral. Letters absent from the table are worth 0.
var letterValues = map[rune]int{
	'A': 1, 'I': 1, 'Q': 1, 'J': 1, 'Y': 1,
	'B': 2, 'K': 2, 'R': 2,
	'C': 3, 'G': 3, 'L': 3, 'S': 3,
	'D': 4, 'M': 4, 'T': 4, 'X': 4,
	'E': 5, 'H': 5, 'N': 5,
	'U': 6, 'V': 6, 'W': 6,
	'O': 7, 'Z': 7,
	'F': 8, 'P': 8,
}

var (
	vowels     = runeSet("AEIOUY")
	consonants = runeSet("BCDFGHJKLMNPQRSTVWXYZÇ")
)

// letter is a character read once: its uppercase base and the first combining mark, if any.
type letter struct {
	raw  rune
	base rune
	mark rune
}

// readLetter decomposes r a single time so every classifier in a pass shares the result.
func readLetter(r rune) letter {
	if r < utf8.RuneSelf {
		return letter{raw: r, base: upper(r)}
	}
	var src, buf [utf8.UTFMax * 4]byte
	n := utf8.EncodeRune(src[:], r)
	decomposed := norm.NFD.Append(buf[:0], src[:n]...)
	base, size := utf8.DecodeRune(decomposed)
	l := letter{raw: r, base: upper(base)}
	if size < len(decomposed) {
		l.mark, _ = utf8.DecodeRune(decomposed[size:])
	}
	return l
}

// LetterValue returns the numeral of a single character, adjusting for its diacritic:
// acute adds 2, tilde adds 3, grave triples and circumflex leaves the value unchanged.
// Ç is always worth 6.
func LetterValue(r rune) int {
	return readLetter(r).value()
}

func (l letter) value() int {
	if l.raw == 'Ç' || l.raw == 'ç' {
		return cedillaValue
	}
	value := letterValues[l.base]
	switch l.mark {
	case markAcute:
		value += 2
	case markTilde:
		value += 3
	case markGrave:
		value *= 3
	case markCircumflex:
		// unchanged
	}
	return value
}

func (l letter) vowel() bool {
	_, ok := vowels[l.base]
	return ok
}

func (l letter) consonant() bool {
	_, ok := consonants[l.base]
	return ok
}

// nameLetter reports whether the character is counted by the frequency calculators: A-Z or the
// Latin-1/Latin Extended-A block from À to Ÿ, case-insensitively.
func (l letter) nameLetter() bool {
	u := upper(l.raw)
	return (u >= 'A' && u <= 'Z') || (u >= 'À' && u <= 'Ÿ')
}

// upper applies full case mapping and keeps the first rune, so ß becomes S. Only lowercase runes
// without a simple mapping need the full caser.
func upper(r rune) rune {
	if r < utf8.RuneSelf {
		if 'a' <= r && r <= 'z' {
			return r - 'a' + 'A'
		}
		return r
	}
	if u := unicode.ToUpper(r); u != r || !unicode.IsLower(r) {
		return u
	}
	for _, u := range cases.Upper(language.Und).String(string(r)) {
		return u
	}
	return r
}

func runeSet(letters string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(letters))
	for _, r := range letters {
		set[r] = struct{}{}
	}
	return set
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}

// composeName folds decomposed sequences so each letter and its diacritic are read as one character.
func composeName(name string) string {
	return norm.NFC.String(name)
}
