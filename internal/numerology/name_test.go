package numerology

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLetterValueTable(t *testing.T) {
	t.Parallel()

	cases := map[rune]int{
		'A': 1, 'J': 1, 'Y': 1,
		'B': 2, 'R': 2,
		'C': 3, 'S': 3,
		'D': 4, 'X': 4,
		'E': 5, 'N': 5,
		'U': 6, 'W': 6,
		'O': 7, 'Z': 7,
		'F': 8, 'P': 8,
		'1': 0, '-': 0, ' ': 0,
	}
	for r, want := range cases {
		require.Equal(t, want, LetterValue(r), "LetterValue(%q)", r)
	}
}

func TestLetterValueIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	for r := 'a'; r <= 'z'; r++ {
		require.Equal(t, LetterValue(r-'a'+'A'), LetterValue(r), "letter %q", r)
	}
	for _, pair := range [][2]rune{{'á', 'Á'}, {'ã', 'Ã'}, {'è', 'È'}, {'ô', 'Ô'}, {'ç', 'Ç'}} {
		require.Equal(t, LetterValue(pair[1]), LetterValue(pair[0]), "letter %q", pair[0])
	}
}

func TestLetterValueDiacritics(t *testing.T) {
	t.Parallel()

	require.Equal(t, 3, LetterValue('á'), "acute adds two")
	require.Equal(t, 4, LetterValue('ã'), "tilde adds three")
	require.Equal(t, 3, LetterValue('à'), "grave triples")
	require.Equal(t, 15, LetterValue('È'), "grave triples")
	require.Equal(t, 1, LetterValue('â'), "circumflex leaves value")
	require.Equal(t, 7, LetterValue('é'))
	require.Equal(t, 10, LetterValue('õ'))
	require.Equal(t, 6, LetterValue('Ç'))
	require.Equal(t, 6, LetterValue('ç'))
}

func TestReadLetter(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in        rune
		want      letter
		vowel     bool
		consonant bool
		counted   bool
	}{
		{in: 'a', want: letter{raw: 'a', base: 'A'}, vowel: true, counted: true},
		{in: 'é', want: letter{raw: 'é', base: 'E', mark: markAcute}, vowel: true, counted: true},
		{in: 'Õ', want: letter{raw: 'Õ', base: 'O', mark: markTilde}, vowel: true, counted: true},
		{in: 'ç', want: letter{raw: 'ç', base: 'C', mark: '\u0327'}, consonant: true, counted: true},
		{in: 'y', want: letter{raw: 'y', base: 'Y'}, vowel: true, consonant: true, counted: true},
		{in: 'ß', want: letter{raw: 'ß', base: 'S'}, consonant: true, counted: true},
		{in: '7', want: letter{raw: '7', base: '7'}},
	}
	for _, tc := range cases {
		got := readLetter(tc.in)
		require.Equal(t, tc.want, got, "readLetter(%q)", tc.in)
		require.Equal(t, tc.vowel, got.vowel(), "vowel(%q)", tc.in)
		require.Equal(t, tc.consonant, got.consonant(), "consonant(%q)", tc.in)
		require.Equal(t, tc.counted, got.nameLetter(), "nameLetter(%q)", tc.in)
		require.Equal(t, LetterValue(tc.in), got.value(), "value(%q)", tc.in)
	}
}

func TestAnaScenario(t *testing.T) {
	t.Parallel()

	require.Equal(t, 2, Motivation("ANA"))
	require.Equal(t, 5, Impression("ANA"))
	require.Equal(t, 7, ExpressionFromLetters("ANA"))
	require.Equal(t, 7, Expression("ANA"))
}

func TestExpressionFallsBackToWordsOnTwoOrFour(t *testing.T) {
	t.Parallel()

	// BIA=4, TEO=16; letters sum to 20 -> 2, words give 4+7=11.
	require.Equal(t, 2, ExpressionFromLetters("BIA TEO"))
	require.Equal(t, 11, ExpressionFromWords("BIA TEO"))
	require.Equal(t, 11, Expression("BIA TEO"))
}

func TestExpressionUsesWordPathWheneverLettersGiveTwoOrFour(t *testing.T) {
	t.Parallel()

	names := []string{
		"ANA", "BIA TEO", "MARIA SILVA", "JOÃO DA SILVA", "MARIA DA CONCEIÇÃO",
		"PEDRO ALVES", "LUCAS LIMA", "ZECA BIA", "ANA ANA ANA ANA", "OTTO DIAS",
	}
	for _, name := range names {
		primary := ExpressionFromLetters(name)
		if primary == 2 || primary == 4 {
			require.Equal(t, ExpressionFromWords(name), Expression(name), "name %q", name)
			continue
		}
		require.Equal(t, primary, Expression(name), "name %q", name)
	}
}

func TestExpressionKeepsMasterNumbers(t *testing.T) {
	t.Parallel()

	// JOÃO=19, DA=5, SILVA=14; total 38 -> 11.
	require.Equal(t, 11, Expression("JOÃO DA SILVA"))
}

func TestNameCalculatorsAcceptDecomposedInput(t *testing.T) {
	t.Parallel()

	decomposed := "JOSE\u0301"
	require.Equal(t, Expression("JOSÉ"), Expression(decomposed))
	require.Equal(t, Motivation("JOSÉ"), Motivation(decomposed))
	require.Equal(t, 9, Expression(decomposed))
}

func TestYCountsAsVowelAndConsonant(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, Motivation("Y"))
	require.Equal(t, 1, Impression("Y"))
}

func TestEmptyNameDegradesToZero(t *testing.T) {
	t.Parallel()

	require.Zero(t, Expression(""))
	require.Zero(t, Motivation(""))
	require.Zero(t, Impression("  "))
	require.Zero(t, SubconsciousResponse(""))
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, KarmicLessons(""))
}

func TestKarmicLessonsAndSubconscious(t *testing.T) {
	t.Parallel()

	names := []string{"", "ANA", "MARIA DA CONCEIÇÃO", "PEDRO ALVES", "Ana Maria", "josé"}
	for _, name := range names {
		require.Equal(t, 9, len(KarmicLessons(name))+SubconsciousResponse(name), "name %q", name)
	}
	require.Equal(t, []int{2, 3, 4, 6, 7, 8, 9}, KarmicLessons("ANA"))
	require.Equal(t, 2, SubconsciousResponse("ANA"))
	require.Equal(t, []int{9}, KarmicLessons("PEDRO ALVES"))
}

func TestHiddenTendencies(t *testing.T) {
	t.Parallel()

	require.Empty(t, HiddenTendencies("ANA"))
	require.Equal(t, []int{1, 5}, HiddenTendencies("ANA ANA ANA ANA"))
	require.Equal(t, []int{3}, HiddenTendencies("Lucas Lima"))
}
