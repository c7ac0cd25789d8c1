package handlers

import (
	"fmt"
	"strconv"

	"github.com/gmalickovski/vibraweb/internal/numerology"
	"github.com/gmalickovski/vibraweb/internal/services"
)

const openEndedCycle = "resto da vida"

type analysisRequest struct {
	Nome           string `json:"nome"`
	DataNascimento string `json:"dataNascimento"`
}

type analysisResponse struct {
	ID        string                `json:"id"`
	Resultado analysisResultPayload `json:"resultado"`
}

type reportResponse struct {
	ID        string                `json:"id"`
	Resultado analysisResultPayload `json:"resultado"`
	Texto     string                `json:"texto"`
	Secoes    []sectionPayload      `json:"secoes"`
}

type sectionPayload struct {
	Titulo string         `json:"titulo"`
	Valor  int            `json:"valor"`
	Blocos []blockPayload `json:"blocos"`
}

type blockPayload struct {
	ID    string `json:"id"`
	Texto string `json:"texto"`
	HTML  string `json:"html"`
}

type analysisResultPayload struct {
	NumeroExpressao       int                    `json:"numeroExpressao"`
	NumeroMotivacao       int                    `json:"numeroMotivacao"`
	NumeroImpressao       int                    `json:"numeroImpressao"`
	NumeroDestino         int                    `json:"numeroDestino"`
	Missao                int                    `json:"missao"`
	TalentoOculto         int                    `json:"talentoOculto"`
	DiaNatalicio          int                    `json:"diaNatalicio"`
	NumeroPsiquico        int                    `json:"numeroPsiquico"`
	CiclosDeVida          lifeCyclesPayload      `json:"ciclosDeVida"`
	NumeroDoAmor          int                    `json:"numeroDoAmor"`
	HarmoniaConjugal      *harmonyPayload        `json:"harmoniaConjugal"`
	AptidoesProfissionais string                 `json:"aptidoesProfissionais"`
	DebitosCarmicos       []int                  `json:"debitosCarmicos"`
	Desafios              challengesPayload      `json:"desafios"`
	LicoesCarmicas        []int                  `json:"licoesCarmicas"`
	RespostaSubconsciente int                    `json:"respostaSubconsciente"`
	TendenciasOcultas     []int                  `json:"tendenciasOcultas"`
	DiasFavoraveis        string                 `json:"diasFavoraveis"`
	DiasBasicos           [2]int                 `json:"diasBasicos"`
	MomentosDecisivos     decisiveMomentsPayload `json:"momentosDecisivos"`
	AnoPessoal            int                    `json:"anoPessoal"`
	CoresFavoraveis       int                    `json:"coresFavoraveis"`
}

type lifeCyclesPayload struct {
	Ciclos []lifeCyclePayload `json:"ciclos"`
}

type lifeCyclePayload struct {
	Inicio  int `json:"inicio"`
	Fim     any `json:"fim"`
	Regente int `json:"regente"`
}

type harmonyPayload struct {
	Numero  int   `json:"numero"`
	Vibra   []int `json:"vibra"`
	Atrai   []int `json:"atrai"`
	Oposto  []int `json:"oposto,omitempty"`
	Passivo []int `json:"passivo"`
}

type challengesPayload struct {
	Desafio1         int `json:"desafio1"`
	Desafio2         int `json:"desafio2"`
	DesafioPrincipal int `json:"desafioPrincipal"`
}

type decisiveMomentsPayload struct {
	Momento1 int    `json:"momento1"`
	Momento2 int    `json:"momento2"`
	Momento3 int    `json:"momento3"`
	Momento4 int    `json:"momento4"`
	Periodo1 string `json:"periodo1"`
	Periodo2 string `json:"periodo2"`
	Periodo3 string `json:"periodo3"`
	Periodo4 string `json:"periodo4"`
}

func buildAnalysisResultPayload(r numerology.Result) analysisResultPayload {
	cycles := make([]lifeCyclePayload, 0, len(r.LifeCycles))
	for _, cycle := range r.LifeCycles {
		var end any = cycle.End
		if cycle.OpenEnded {
			end = openEndedCycle
		}
		cycles = append(cycles, lifeCyclePayload{Inicio: cycle.Start, Fim: end, Regente: cycle.Ruler})
	}

	var harmony *harmonyPayload
	if r.MaritalHarmony != nil {
		harmony = &harmonyPayload{
			Numero:  r.MaritalHarmony.Number,
			Vibra:   nonNilInts(r.MaritalHarmony.VibratesWith),
			Atrai:   nonNilInts(r.MaritalHarmony.Attracts),
			Oposto:  r.MaritalHarmony.Opposite,
			Passivo: nonNilInts(r.MaritalHarmony.Passive),
		}
	}

	moments := r.DecisiveMoments
	return analysisResultPayload{
		NumeroExpressao:       r.Expression,
		NumeroMotivacao:       r.Motivation,
		NumeroImpressao:       r.Impression,
		NumeroDestino:         r.Destiny,
		Missao:                r.Mission,
		TalentoOculto:         r.HiddenTalent,
		DiaNatalicio:          r.BirthDay,
		NumeroPsiquico:        r.PsychicNumber,
		CiclosDeVida:          lifeCyclesPayload{Ciclos: cycles},
		NumeroDoAmor:          r.LoveNumber,
		HarmoniaConjugal:      harmony,
		AptidoesProfissionais: strconv.Itoa(r.ProfessionalAptitude),
		DebitosCarmicos:       nonNilInts(r.KarmicDebts),
		Desafios: challengesPayload{
			Desafio1:         r.Challenges.First,
			Desafio2:         r.Challenges.Second,
			DesafioPrincipal: r.Challenges.Main,
		},
		LicoesCarmicas:        nonNilInts(r.KarmicLessons),
		RespostaSubconsciente: r.SubconsciousResponse,
		TendenciasOcultas:     nonNilInts(r.HiddenTendencies),
		DiasFavoraveis:        r.FavorableDays,
		DiasBasicos:           r.BasicDays,
		MomentosDecisivos: decisiveMomentsPayload{
			Momento1: moments.First,
			Momento2: moments.Second,
			Momento3: moments.Third,
			Momento4: moments.Fourth,
			Periodo1: formatPeriod(moments.Periods[0]),
			Periodo2: formatPeriod(moments.Periods[1]),
			Periodo3: formatPeriod(moments.Periods[2]),
			Periodo4: formatPeriod(moments.Periods[3]),
		},
		AnoPessoal:      r.PersonalYear,
		CoresFavoraveis: r.FavorableColor,
	}
}

func buildReportResponse(report services.AnalysisReport) reportResponse {
	sections := make([]sectionPayload, 0, len(report.Sections))
	for _, section := range report.Sections {
		blocks := make([]blockPayload, 0, len(section.Blocks))
		for _, block := range section.Blocks {
			blocks = append(blocks, blockPayload{ID: block.ID, Texto: block.Text, HTML: block.HTML})
		}
		sections = append(sections, sectionPayload{Titulo: section.Title, Valor: section.Value, Blocos: blocks})
	}
	return reportResponse{
		ID:        report.Analysis.ID,
		Resultado: buildAnalysisResultPayload(report.Analysis.Result),
		Texto:     report.Summary,
		Secoes:    sections,
	}
}

func formatPeriod(p numerology.Period) string {
	if p.OpenEnded {
		return fmt.Sprintf("%d - ?", p.Start)
	}
	return fmt.Sprintf("%d - %d", p.Start, p.End)
}

func nonNilInts(values []int) []int {
	if values == nil {
		return []int{}
	}
	return values
}
