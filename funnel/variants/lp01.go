package variants

import (
	"leadfunnel/entity"
	"leadfunnel/funnel/flow"
)

const (
	lp01Situation flow.StepID = "q_inss_situation"
	lp01Benefit   flow.StepID = "q_benefit_range"
	lp01Debt      flow.StepID = "q_debt_type"
	lp01Discount  flow.StepID = "q_discount_range"
)

func Lp01() *flow.Variant {
	v := &flow.Variant{
		ID:                "lp01",
		Title:             "Triagem rápida (5 etapas)",
		Entry:             lp01Situation,
		EmailRequired:     true,
		NavigateOnSuccess: true,
		Steps: []flow.Step{
			{
				ID:     lp01Situation,
				Prompt: "Qual é sua situação perante o INSS?",
				Options: []flow.Option{
					option("Aposentado do INSS", "aposentado_inss", flow.AdvanceTo(lp01Benefit)),
					option("Pensionista do INSS", "pensionista_inss", flow.AdvanceTo(lp01Benefit)),
					option("CLT com carteira assinada", "clt", flow.Disqualify("not_inss")),
					option("Autônomo/MEI", "mei", flow.Disqualify("not_inss")),
					option("Outra situação", "outra", flow.Disqualify("not_inss")),
				},
			},
			{
				ID:     lp01Benefit,
				Prompt: "Qual o valor aproximado do seu benefício mensal?",
				Back:   lp01Situation,
				Options: []flow.Option{
					option("Acima de R$ 4.000", "acima_4000", flow.AdvanceTo(lp01Debt)),
					option("Entre R$ 3.000 e R$ 4.000", "3000_4000", flow.AdvanceTo(lp01Debt)),
					option("Entre R$ 2.000 e R$ 3.000", "2000_3000", flow.AdvanceTo(lp01Debt)),
					option("Abaixo de R$ 2.000", "abaixo_2000", flow.Disqualify("below_2k")),
					option("Não sei/Não tenho certeza", "nao_sei", flow.AdvanceTo(lp01Debt)),
				},
			},
			{
				ID:     lp01Debt,
				Prompt: "Que tipo de dívida mais pesa no seu orçamento?",
				Back:   lp01Benefit,
				Options: []flow.Option{
					option("Empréstimo consignado (desconto em folha)", "consignado", flow.AdvanceTo(lp01Discount)),
					option("Múltiplas dívidas diferentes", "multiplas", flow.AdvanceTo(lp01Discount)),
					option("Cartão de crédito", "cartao_credito", flow.AdvanceTo(lp01Discount)),
					option("Empréstimo pessoal", "emprestimo_pessoal", flow.AdvanceTo(lp01Discount)),
					option("Outros tipos de dívida", "outros", flow.AdvanceTo(lp01Discount)),
				},
			},
			{
				ID:     lp01Discount,
				Prompt: "Quanto os bancos descontam do seu benefício todo mês?",
				Back:   lp01Debt,
				Options: []flow.Option{
					option("Mais de R$ 2.000", "acima_2000", flow.Complete()),
					option("Entre R$ 1.000 e R$ 2.000", "1000_2000", flow.Complete()),
					option("Entre R$ 500 e R$ 1.000", "500_1000", flow.Complete()),
					option("Menos de R$ 500", "abaixo_500", flow.Disqualify("discount_low")),
					option("Não sei calcular", "nao_sei", flow.Complete()),
				},
			},
		},
		Eligibility: lp01Eligibility,
		Outcomes: map[string]flow.Message{
			"not_inss": {
				Title: "Infelizmente você não se qualifica",
				Body:  "Esta solução é exclusiva para aposentados/pensionistas do INSS. Para trabalhadores CLT e autônomos/MEI, sugerimos buscar orientação jurídica adequada ao seu vínculo.",
			},
			"below_2k": {
				Title: "Infelizmente você não se qualifica",
				Body:  "Para valores abaixo de R$ 2.000, recomendamos orientação da Defensoria Pública.",
			},
			"discount_low": {
				Title: "Infelizmente você não se qualifica",
				Body:  "Para descontos baixos, renegociação direta com o banco pode ser mais eficiente.",
			},
			string(flow.TerminalQualified): {
				Title: "Parabéns! Você se qualifica",
				Body:  "Preencha os dados para contato via WhatsApp.",
			},
			string(flow.TerminalReview): {
				Title: "Seu caso pode ser avaliado",
				Body:  "Preencha os dados para contato via WhatsApp.",
			},
		},
	}

	v.Qualify = func(a flow.Answers, t flow.Terminal) entity.Qualification {
		q := entity.Qualification{
			IsInssRetireeOrPensioner: entity.Bool(oneOf(a[lp01Situation], "aposentado_inss", "pensionista_inss")),
			InssSituation:            labelOf(v, lp01Situation, a),
			DebtType:                 labelOf(v, lp01Debt, a),
			LeadType:                 "Avaliação",
		}
		switch a[lp01Benefit] {
		case "":
		case "nao_sei":
			q.BenefitAbove2k = entity.BenefitUnknown
			q.BenefitRange = labelOf(v, lp01Benefit, a)
		case "abaixo_2000":
			q.BenefitAbove2k = entity.BenefitNo
		default:
			q.BenefitAbove2k = entity.BenefitYes
			q.BenefitRange = labelOf(v, lp01Benefit, a)
		}
		if a[lp01Discount] != "abaixo_500" {
			q.DiscountRange = labelOf(v, lp01Discount, a)
		}
		if t == flow.TerminalQualified {
			q.LeadType = "Qualificado"
		}

		var s summary
		s.add("Tipo de dívida: ", q.DebtType)
		s.add("Desconto mensal: ", q.DiscountRange)
		q.DiscountReason = s.String()
		return q
	}

	return v
}

func lp01Eligibility(a flow.Answers) flow.Verdict {
	qualified := oneOf(a[lp01Situation], "aposentado_inss", "pensionista_inss") &&
		oneOf(a[lp01Benefit], "acima_4000", "3000_4000") &&
		oneOf(a[lp01Debt], "consignado", "multiplas") &&
		oneOf(a[lp01Discount], "acima_2000", "1000_2000")
	if qualified {
		return flow.Verdict{Terminal: flow.TerminalQualified}
	}
	return flow.Verdict{Terminal: flow.TerminalReview}
}
