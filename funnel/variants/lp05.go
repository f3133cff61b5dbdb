package variants

import (
	"leadfunnel/entity"
	"leadfunnel/funnel/flow"
)

const (
	lp05Inss       flow.StepID = "q1-inss"
	lp05Benefit    flow.StepID = "q2-benefit"
	lp05Consignado flow.StepID = "q3-consignado"
	lp05Debt       flow.StepID = "q4-debt"
)

var lp05DebtTotals = map[string]float64{
	"lt_10k":   9000,
	"10k_20k":  15000,
	"20k1_40k": 30000,
	"gt_40k":   45000,
}

func Lp05() *flow.Variant {
	const title = "Obrigado pelo interesse"

	v := &flow.Variant{
		ID:            "lp05",
		Title:         "Triagem rápida (menos de 2 minutos)",
		Entry:         lp05Inss,
		EmailRequired: true,
		Steps: []flow.Step{
			{
				ID:     lp05Inss,
				Prompt: "Você é aposentado ou pensionista do INSS?",
				Options: []flow.Option{
					option("Sim", "sim", flow.AdvanceTo(lp05Benefit)),
					option("Não", "nao", flow.Disqualify("not_inss")),
				},
			},
			{
				ID:     lp05Benefit,
				Prompt: "Qual o valor aproximado do seu benefício mensal do INSS?",
				Back:   lp05Inss,
				Options: []flow.Option{
					option("Menos de R$ 2.000", "lt_2k", flow.Disqualify("below_3k")),
					option("R$ 2.000 a R$ 3.000", "2k_3k", flow.Disqualify("below_3k")),
					option("R$ 3.001 a R$ 4.000", "3k1_4k", flow.AdvanceTo(lp05Consignado)),
					option("Acima de R$ 4.000", "gt_4k", flow.AdvanceTo(lp05Consignado)),
				},
			},
			{
				ID:     lp05Consignado,
				Prompt: "Você tem empréstimos consignados ativos descontados no benefício?",
				Back:   lp05Benefit,
				Options: []flow.Option{
					option("Sim", "sim", flow.AdvanceTo(lp05Debt)),
					option("Não", "nao", flow.Disqualify("no_consignado")),
				},
			},
			{
				ID:     lp05Debt,
				Prompt: "Qual o valor aproximado total das suas dívidas em consignados?",
				Back:   lp05Consignado,
				Options: []flow.Option{
					hinted("Menos de R$ 10.000", "lt_10k",
						"Para dívidas mais altas (acima de R$ 15.000) normalmente conseguimos melhor margem de resultado, mas ainda podemos analisar.",
						flow.Complete()),
					option("R$ 10.000 a R$ 20.000", "10k_20k", flow.Complete()),
					option("R$ 20.001 a R$ 40.000", "20k1_40k", flow.Complete()),
					option("Acima de R$ 40.000", "gt_40k", flow.Complete()),
				},
			},
		},
		Outcomes: map[string]flow.Message{
			"not_inss": {Title: title, Body: "No momento, atendemos apenas aposentados e pensionistas do INSS."},
			"no_consignado": {
				Title: title,
				Body:  "Nossa especialidade é consignado descontado no benefício do INSS. Se você tiver consignados ativos no futuro, volte aqui para uma nova triagem.",
			},
			"below_3k": {Title: title, Body: "Para casos com benefício acima de R$ 3.000 obtemos os melhores resultados."},
			string(flow.TerminalQualified): {
				Title: "Etapa 3 de 3 • Seus dados",
				Body:  "Informe seus dados para um especialista analisar o seu caso.",
			},
		},
	}

	v.Qualify = func(a flow.Answers, _ flow.Terminal) entity.Qualification {
		q := entity.Qualification{
			BenefitAbove2k: entity.BenefitYes,
			BenefitRange:   labelOf(v, lp05Benefit, a),
			LeadType:       "lp05",
		}
		if ans := a[lp05Inss]; ans != "" {
			q.IsInssRetireeOrPensioner = entity.Bool(ans == "sim")
		}
		if a[lp05Consignado] == "sim" {
			q.DebtType = "Consignado INSS (ativo)"
		}
		if total, ok := lp05DebtTotals[a[lp05Debt]]; ok {
			q.DebtsTotal = entity.Amount(total)
		}
		return q
	}

	return v
}
