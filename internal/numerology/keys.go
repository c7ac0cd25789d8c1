package numerology

// Narrative section labels as stored in the content source.
const (
	LabelIntroduction        = "Introdução"
	LabelExpression          = "Expressão"
	LabelMotivation          = "Motivação"
	LabelImpression          = "Impressão"
	LabelDestiny             = "Destino"
	LabelMission             = "Missão"
	LabelHiddenTalent        = "Talento Oculto"
	LabelBirthDay            = "Dia Natalício"
	LabelPsychicNumber       = "Número Psíquico"
	LabelMaritalHarmony      = "Harmonia Conjugal"
	LabelFirstChallenge      = "1º Desafio"
	LabelSecondChallenge     = "2º Desafio"
	LabelMainChallenge       = "3º Desafio (Principal)"
	LabelFavorableDays       = "Dias Favoráveis"
	LabelHiddenTendency      = "Tendência Oculta"
	LabelKarmicDebt          = "Débito Cármico"
	LabelKarmicLesson        = "Lição Cármica"
	LabelDecisiveMoment      = "Momento Decisivo"
	LabelDecisiveMomentAlt   = "Nº Momento Decisivo"
	LabelSubconscious        = "Resposta do Subconsciênte"
	LabelPersonalYear        = "Ano Pessoal"
	LabelProfessionalAptness = "Aptidões e Potencialidades Profissionais"
	LabelConclusion          = "Conclusão"
)

var cycleLabels = [3]string{"Ciclo 1", "Ciclo 2", "Ciclo 3"}

// NarrativeKey identifies one narrative lookup. AltLabel, when set, is tried if Label has no content.
type NarrativeKey struct {
	Label    string
	Value    int
	AltLabel string
}

// NarrativeKeys lists the lookups a full report needs, in reading order.
func NarrativeKeys(r Result) []NarrativeKey {
	keys := []NarrativeKey{
		{Label: LabelIntroduction, Value: 1},
		{Label: LabelExpression, Value: r.Expression},
		{Label: LabelMotivation, Value: r.Motivation},
		{Label: LabelImpression, Value: r.Impression},
		{Label: LabelDestiny, Value: r.Destiny},
		{Label: LabelMission, Value: r.Mission},
		{Label: LabelHiddenTalent, Value: r.HiddenTalent},
		{Label: LabelBirthDay, Value: r.BirthDay},
		{Label: LabelPsychicNumber, Value: r.PsychicNumber},
		{Label: LabelMaritalHarmony, Value: r.LoveNumber},
	}
	for i, cycle := range r.LifeCycles {
		keys = append(keys, NarrativeKey{Label: cycleLabels[i], Value: cycle.Ruler})
	}
	keys = append(keys,
		NarrativeKey{Label: LabelFirstChallenge, Value: r.Challenges.First},
		NarrativeKey{Label: LabelSecondChallenge, Value: r.Challenges.Second},
		NarrativeKey{Label: LabelMainChallenge, Value: r.Challenges.Main},
		NarrativeKey{Label: LabelFavorableDays, Value: 0},
	)
	for _, v := range r.HiddenTendencies {
		keys = append(keys, NarrativeKey{Label: LabelHiddenTendency, Value: v})
	}
	for _, v := range r.KarmicDebts {
		keys = append(keys, NarrativeKey{Label: LabelKarmicDebt, Value: v})
	}
	for _, v := range r.KarmicLessons {
		keys = append(keys, NarrativeKey{Label: LabelKarmicLesson, Value: v})
	}
	for _, v := range r.DecisiveMoments.Values() {
		if v == 0 {
			continue
		}
		keys = append(keys, NarrativeKey{Label: LabelDecisiveMoment, Value: v, AltLabel: LabelDecisiveMomentAlt})
	}
	return append(keys,
		NarrativeKey{Label: LabelSubconscious, Value: r.SubconsciousResponse},
		NarrativeKey{Label: LabelPersonalYear, Value: r.PersonalYear},
		NarrativeKey{Label: LabelProfessionalAptness, Value: r.ProfessionalAptitude},
		NarrativeKey{Label: LabelConclusion, Value: 1},
	)
}
