package numerology

import "time"

// Result is the full set of attributes derived from a name and a birth date.
// Slices are owned by the Result; Analyze never shares them with package tables.
type Result struct {
	Expression           int
	Motivation           int
	Impression           int
	Destiny              int
	Mission              int
	HiddenTalent         int
	BirthDay             int
	PsychicNumber        int
	LifeCycles           [3]LifeCycle
	LoveNumber           int
	MaritalHarmony       *Harmony
	ProfessionalAptitude int
	KarmicDebts          []int
	Challenges           Challenges
	KarmicLessons        []int
	SubconsciousResponse int
	HiddenTendencies     []int
	FavorableDays        string
	BasicDays            [2]int
	DecisiveMoments      DecisiveMoments
	PersonalYear         int
	FavorableColor       int
}

// Analyze runs every calculator in dependency order. The birth date is expected to be parsed
// already; now only affects PersonalYear.
func Analyze(name string, d BirthDate, now time.Time) Result {
	expression := Expression(name)
	motivation := Motivation(name)
	impression := Impression(name)
	destiny := Destiny(d)
	love := LoveNumber(expression, destiny)
	lessons := KarmicLessons(name)

	result := Result{
		Expression:           expression,
		Motivation:           motivation,
		Impression:           impression,
		Destiny:              destiny,
		Mission:              Mission(expression, destiny),
		HiddenTalent:         HiddenTalent(motivation, expression),
		BirthDay:             BirthDay(d),
		PsychicNumber:        PsychicNumber(d),
		LifeCycles:           LifeCycles(d, destiny),
		LoveNumber:           love,
		ProfessionalAptitude: ProfessionalAptitude(expression),
		KarmicDebts:          KarmicDebts(d, destiny, motivation, expression),
		Challenges:           ComputeChallenges(d),
		KarmicLessons:        lessons,
		SubconsciousResponse: subconsciousFromLessons(lessons),
		HiddenTendencies:     HiddenTendencies(name),
		FavorableDays:        FavorableDays(d),
		BasicDays:            BasicDays(d),
		DecisiveMoments:      ComputeDecisiveMoments(d),
		PersonalYear:         PersonalYear(d, now),
		FavorableColor:       FavorableColor(d),
	}
	if harmony, ok := MaritalHarmony(love); ok {
		result.MaritalHarmony = &harmony
	}
	return result
}
