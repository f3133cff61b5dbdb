package variants

import (
	"strings"

	"leadfunnel/entity"
	"leadfunnel/funnel/flow"
)

const (
	lp06Age          flow.StepID = "q_age"
	lp06Professional flow.StepID = "q_professional"
	lp06Benefit      flow.StepID = "q_benefit"
	lp06Debts        flow.StepID = "q_debts"
	lp06Loans        flow.StepID = "q_loans"
)

var (
	lp06AgeEstimate = map[string]int{
		"lt_40": 35,
		"40_54": 47,
		"55_65": 60,
		"gt_65": 70,
	}
	lp06DebtTotals = map[string]float64{
		"ate_10000":   9000,
		"10001_30000": 20000,
		"30001_70000": 50000,
		"acima_70000": 80000,
	}
)

// Lp06 collects every answer first and scores the whole profile at the end.
func Lp06() *flow.Variant {
	v := &flow.Variant{
		ID:               "lp06",
		Title:            "Triagem rápida",
		Entry:            lp06Age,
		DisqualifiedBack: lp06Loans,
		Steps: []flow.Step{
			{
				ID:     lp06Age,
				Prompt: "Idade",
				Options: []flow.Option{
					option("Menos de 40 anos", "lt_40", flow.AdvanceTo(lp06Professional)),
					option("40 a 54 anos", "40_54", flow.AdvanceTo(lp06Professional)),
					option("55 a 65 anos", "55_65", flow.AdvanceTo(lp06Professional)),
					option("Acima de 65 anos", "gt_65", flow.AdvanceTo(lp06Professional)),
				},
			},
			{
				ID:     lp06Professional,
				Prompt: "Você é",
				Back:   lp06Age,
				Options: []flow.Option{
					option("Aposentado do INSS", "aposentado_inss", flow.AdvanceTo(lp06Benefit)),
					option("Pensionista do INSS", "pensionista_inss", flow.AdvanceTo(lp06Benefit)),
					option("Servidor Público Aposentado", "servidor_publico_aposentado", flow.AdvanceTo(lp06Benefit)),
					option("Outro", "outro", flow.AdvanceTo(lp06Benefit)),
				},
			},
			{
				ID:     lp06Benefit,
				Prompt: "Valor do seu benefício (aposentadoria/pensão)",
				Back:   lp06Professional,
				Options: []flow.Option{
					option("Até R$ 2.000", "ate_2000", flow.AdvanceTo(lp06Debts)),
					option("R$ 2.001 a R$ 3.000", "2001_3000", flow.AdvanceTo(lp06Debts)),
					option("R$ 3.001 a R$ 5.000", "3001_5000", flow.AdvanceTo(lp06Debts)),
					option("Acima de R$ 5.000", "acima_5000", flow.AdvanceTo(lp06Debts)),
				},
			},
			{
				ID:     lp06Debts,
				Prompt: "O valor total das suas dívidas de consignado é",
				Back:   lp06Benefit,
				Options: []flow.Option{
					option("Até R$ 10.000", "ate_10000", flow.AdvanceTo(lp06Loans)),
					option("R$ 10.001 a R$ 30.000", "10001_30000", flow.AdvanceTo(lp06Loans)),
					option("R$ 30.001 a R$ 70.000", "30001_70000", flow.AdvanceTo(lp06Loans)),
					option("Acima de R$ 70.000", "acima_70000", flow.AdvanceTo(lp06Loans)),
				},
			},
			{
				ID:     lp06Loans,
				Prompt: "Quantidade de empréstimos consignados ativos",
				Back:   lp06Debts,
				Options: []flow.Option{
					option("1", "1", flow.Complete()),
					option("2", "2", flow.Complete()),
					option("3 ou mais", "3_mais", flow.Complete()),
				},
			},
		},
		Eligibility: lp06Eligibility,
		Outcomes: map[string]flow.Message{
			string(flow.TerminalDisqualified): {
				Title: "Obrigado pelo seu interesse",
				Body:  "No momento, nosso trabalho é focado exclusivamente em ajudar aposentados, pensionistas do INSS e servidores públicos aposentados com dívidas altas de consignado. Para outras situações, recomendamos buscar orientação no Procon ou em um defensor público.",
			},
			string(flow.TerminalReview): {
				Title: "Confirme suas respostas",
				Body:  "Seu caso pode exigir análise manual. Envie mesmo assim e um especialista avalia com cuidado.",
			},
			string(flow.TerminalQualified): {
				Title: "Falta pouco",
				Body:  "Informe seus dados para um especialista te chamar no WhatsApp.",
			},
		},
	}

	v.Qualify = func(a flow.Answers, t flow.Terminal) entity.Qualification {
		professional := labelOf(v, lp06Professional, a)
		loans := labelOf(v, lp06Loans, a)

		q := entity.Qualification{
			BenefitAbove2k: entity.BenefitYes,
			BenefitRange:   labelOf(v, lp06Benefit, a),
			InssSituation:  professional,
			DebtType:       "Consignado",
		}
		switch a[lp06Professional] {
		case "aposentado_inss", "pensionista_inss":
			q.IsInssRetireeOrPensioner = entity.Bool(true)
		case "outro":
			q.IsInssRetireeOrPensioner = entity.Bool(false)
		}
		if a[lp06Benefit] == "ate_2000" {
			q.BenefitAbove2k = entity.BenefitNo
		}
		if age, ok := lp06AgeEstimate[a[lp06Age]]; ok {
			q.Age = entity.Int(age)
		}
		if total, ok := lp06DebtTotals[a[lp06Debts]]; ok {
			q.DebtsTotal = entity.Amount(total)
		}
		if loans != "" {
			q.DebtType = "Consignado (empréstimos ativos: " + loans + ")"
		}
		switch t {
		case flow.TerminalQualified:
			q.LeadType = "LP06 — Qualificado"
		case flow.TerminalDisqualified:
			q.LeadType = "LP06 — Desqualificado"
		default:
			q.LeadType = "LP06 — Avaliação"
		}

		var s summary
		s.add("Você é: ", professional)
		s.add("Idade: ", labelOf(v, lp06Age, a))
		s.add("Benefício: ", q.BenefitRange)
		s.add("Dívidas: ", labelOf(v, lp06Debts, a))
		s.add("Qtd. consignados: ", loans)
		s.add("Motivos (triagem): ", strings.Join(lp06Eligibility(a).Reasons, " "))
		q.DiscountReason = s.String()
		return q
	}

	return v
}

func lp06Eligibility(a flow.Answers) flow.Verdict {
	age, professional := a[lp06Age], a[lp06Professional]
	benefit, debts, loans := a[lp06Benefit], a[lp06Debts], a[lp06Loans]

	var reasons []string
	if professional == "outro" {
		reasons = append(reasons, "Perfil fora do atendimento (não é INSS/servidor público aposentado).")
	}
	if benefit == "ate_2000" {
		reasons = append(reasons, "Benefício até R$ 2.000 (fora do ticket atendido).")
	}
	if debts == "ate_10000" {
		reasons = append(reasons, "Dívida até R$ 10.000 (normalmente sem margem suficiente).")
	}
	under40 := age == "lt_40" && professional != "servidor_publico_aposentado"
	if under40 {
		reasons = append(reasons, "Idade abaixo de 40 anos (fora do público-alvo principal).")
	}

	if professional == "outro" || benefit == "ate_2000" || debts == "ate_10000" || under40 {
		return flow.Verdict{Terminal: flow.TerminalDisqualified, Reason: "profile", Reasons: reasons}
	}
	if !oneOf(professional, "aposentado_inss", "pensionista_inss", "servidor_publico_aposentado") {
		return flow.Verdict{Terminal: flow.TerminalReview, Reasons: reasons}
	}

	highBenefit := oneOf(benefit, "3001_5000", "acima_5000")
	highDebt := oneOf(debts, "30001_70000", "acima_70000")
	ageStrong := oneOf(age, "55_65", "gt_65")

	qualified := (ageStrong || (age == "40_54" && (highDebt || highBenefit || loans == "3_mais"))) &&
		(highBenefit || (benefit == "2001_3000" && highDebt)) &&
		(highDebt || debts == "10001_30000") &&
		(oneOf(loans, "2", "3_mais") || (loans == "1" && highDebt))

	if qualified {
		return flow.Verdict{Terminal: flow.TerminalQualified, Reasons: reasons}
	}
	return flow.Verdict{Terminal: flow.TerminalReview, Reasons: reasons}
}
