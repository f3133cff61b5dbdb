package variants

import (
	"leadfunnel/entity"
	"leadfunnel/funnel/flow"
)

const (
	lp04Professional flow.StepID = "q_professional"
	lp04Income       flow.StepID = "q_income"
	lp04Debt         flow.StepID = "q_debt"
	lp04Loans        flow.StepID = "q_loans"
	lp04Commitment   flow.StepID = "q_commitment"
)

var lp04DebtTotals = map[string]float64{
	"ate_10000":   8000,
	"10001_15000": 12500,
	"15001_30000": 22500,
	"acima_30000": 40000,
}

func Lp04() *flow.Variant {
	const title = "No momento, este programa não é indicado para o seu perfil"

	v := &flow.Variant{
		ID:               "lp04",
		Title:            "Verificação rápida",
		Entry:            lp04Professional,
		EmailRequired:    true,
		ConsentRequired:  true,
		DisqualifiedBack: lp04Professional,
		Steps: []flow.Step{
			{
				ID:     lp04Professional,
				Prompt: "1) Qual sua situação profissional atual?*",
				Options: []flow.Option{
					option("Aposentado INSS", "aposentado_inss", flow.AdvanceTo(lp04Income)),
					option("Pensionista INSS", "pensionista_inss", flow.AdvanceTo(lp04Income)),
					option("Servidor público", "servidor_aposentado", flow.AdvanceTo(lp04Income)),
					option("CLT/Autônomo (não atendemos)", "clt_autonomo", flow.Disqualify("professional")),
				},
			},
			{
				ID:     lp04Income,
				Prompt: "2) Qual sua renda mensal (benefício)?*",
				Back:   lp04Professional,
				Options: []flow.Option{
					option("Até R$ 2.000", "ate_2000", flow.Disqualify("income")),
					option("R$ 2.001 a R$ 3.000", "2001_3000", flow.Disqualify("income")),
					option("R$ 3.001 a R$ 5.000", "3001_5000", flow.AdvanceTo(lp04Debt)),
					option("Acima de R$ 5.000", "acima_5000", flow.AdvanceTo(lp04Debt)),
				},
			},
			{
				ID:     lp04Debt,
				Prompt: "3) Quanto você deve aproximadamente em consignados?*",
				Back:   lp04Income,
				Options: []flow.Option{
					option("Até R$ 10.000", "ate_10000", flow.Disqualify("debt")),
					option("R$ 10.001 a R$ 15.000", "10001_15000", flow.Disqualify("debt")),
					option("R$ 15.001 a R$ 30.000", "15001_30000", flow.AdvanceTo(lp04Loans)),
					option("Acima de R$ 30.000", "acima_30000", flow.AdvanceTo(lp04Loans)),
				},
			},
			{
				ID:     lp04Loans,
				Prompt: "4) Quantos empréstimos consignados você possui ativos?*",
				Back:   lp04Debt,
				Options: []flow.Option{
					option("1 a 2", "1_2", flow.Disqualify("loans")),
					option("3 a 5", "3_5", flow.AdvanceTo(lp04Commitment)),
					option("6 ou mais", "6_mais", flow.AdvanceTo(lp04Commitment)),
				},
			},
			{
				ID:     lp04Commitment,
				Prompt: "5) Quanto do seu benefício está comprometido com descontos?*",
				Back:   lp04Loans,
				Options: []flow.Option{
					option("Até 30%", "ate_30", flow.Complete()),
					option("35% a 50%", "35_50", flow.Complete()),
					option("Mais de 50%", "acima_50", flow.Complete()),
				},
			},
		},
		Eligibility: lp04Eligibility,
		Outcomes: map[string]flow.Message{
			"professional": {Title: title, Body: "Este programa é exclusivo para aposentados/pensionistas do INSS e servidores públicos aposentados."},
			"income":       {Title: title, Body: "No momento, o programa atende apenas benefícios acima de R$ 3.000."},
			"debt":         {Title: title, Body: "No momento, o programa atende apenas dívidas de consignado acima de R$ 15.000."},
			"loans":        {Title: title, Body: "No momento, priorizamos casos com 3 ou mais consignados ativos."},
			"commitment":   {Title: title, Body: "No momento, priorizamos casos com mais de 35% do benefício comprometido com descontos."},
			string(flow.TerminalDisqualified): {
				Title: title,
				Body:  "Agradecemos por responder. No momento, este programa não é o indicado para o seu caso.",
			},
			string(flow.TerminalQualified): {
				Title: "Perfil compatível com o programa",
				Body:  "Informe seus dados para um especialista te chamar no WhatsApp.",
			},
		},
	}

	v.Qualify = func(a flow.Answers, _ flow.Terminal) entity.Qualification {
		loans := labelOf(v, lp04Loans, a)
		if loans == "" {
			loans = "Qtd. não informada"
		}

		q := entity.Qualification{
			IsInssRetireeOrPensioner: entity.Bool(true),
			BenefitAbove2k:           entity.BenefitYes,
			InssSituation:            labelOf(v, lp04Professional, a),
			BenefitRange:             labelOf(v, lp04Income, a),
			DebtType:                 "Empréstimo consignado | " + loans,
			DiscountRange:            labelOf(v, lp04Commitment, a),
			LeadType:                 "LP04 — Qualificação (consignado)",
		}
		if total, ok := lp04DebtTotals[a[lp04Debt]]; ok {
			q.DebtsTotal = entity.Amount(total)
		}

		var s summary
		s.add("Situação: ", q.InssSituation)
		s.add("Renda: ", q.BenefitRange)
		s.add("Dívida: ", labelOf(v, lp04Debt, a))
		s.add("Qtd. consignados: ", labelOf(v, lp04Loans, a))
		s.add("Comprometimento: ", q.DiscountRange)
		s = append(s, "Ciente de investimento: Sim")
		q.DiscountReason = s.String()
		return q
	}

	return v
}

// lp04Eligibility only passes profiles that cleared every mid-flow gate.
func lp04Eligibility(a flow.Answers) flow.Verdict {
	switch {
	case !oneOf(a[lp04Professional], "aposentado_inss", "pensionista_inss", "servidor_aposentado"):
		return flow.Verdict{Terminal: flow.TerminalDisqualified, Reason: "professional"}
	case !oneOf(a[lp04Income], "3001_5000", "acima_5000"):
		return flow.Verdict{Terminal: flow.TerminalDisqualified, Reason: "income"}
	case !oneOf(a[lp04Debt], "15001_30000", "acima_30000"):
		return flow.Verdict{Terminal: flow.TerminalDisqualified, Reason: "debt"}
	case !oneOf(a[lp04Loans], "3_5", "6_mais"):
		return flow.Verdict{Terminal: flow.TerminalDisqualified, Reason: "loans"}
	case a[lp04Commitment] == "":
		return flow.Verdict{Terminal: flow.TerminalDisqualified, Reason: "commitment"}
	}
	return flow.Verdict{Terminal: flow.TerminalQualified}
}
