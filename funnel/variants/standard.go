package variants

import (
	"leadfunnel/entity"
	"leadfunnel/funnel/flow"
)

const (
	standardInss    flow.StepID = "qualify-inss"
	standardBenefit flow.StepID = "qualify-benefit"
)

// Standard is the two-question tree used by routes without a dedicated
// questionnaire.
func Standard(id flow.VariantID) *flow.Variant {
	return &flow.Variant{
		ID:    id,
		Title: "Verifique se você se qualifica",
		Entry: standardInss,
		Steps: []flow.Step{
			{
				ID:     standardInss,
				Prompt: "Você é aposentado ou pensionista do INSS?",
				Options: []flow.Option{
					option("Sim", "yes", flow.AdvanceTo(standardBenefit)),
					option("Não", "no", flow.Disqualify("not_inss")),
				},
			},
			{
				ID:     standardBenefit,
				Prompt: "Seu benefício é superior a R$ 2.000 mensais?",
				Back:   standardInss,
				Options: []flow.Option{
					option("Sim", "yes", flow.Complete()),
					option("Não", "no", flow.Disqualify("below_2k")),
					option("Não sei", "unknown", flow.Complete()),
				},
			},
		},
		Outcomes: map[string]flow.Message{
			"not_inss": {
				Title: "Infelizmente você não se qualifica",
				Body:  "No momento, atendemos apenas aposentados e pensionistas do INSS.",
			},
			"below_2k": {
				Title: "Infelizmente você não se qualifica",
				Body:  "No momento, conseguimos ajudar apenas quando o benefício é superior a R$ 2.000 mensais.",
			},
			string(flow.TerminalQualified): {
				Title: "Parabéns! Você se qualifica",
				Body:  "Preencha os dados para contato via WhatsApp.",
			},
		},
		Qualify: func(a flow.Answers, _ flow.Terminal) entity.Qualification {
			q := entity.Qualification{}
			if ans := a[standardInss]; ans != "" {
				q.IsInssRetireeOrPensioner = entity.Bool(ans == "yes")
			}
			if ans := a[standardBenefit]; ans != "" {
				q.BenefitAbove2k = entity.BenefitAnswer(ans)
			}
			return q
		},
	}
}
