package variants

import (
	"leadfunnel/entity"
	"leadfunnel/funnel/flow"
)

const (
	lp03Origin  flow.StepID = "q_income_origin"
	lp03Problem flow.StepID = "q_main_problem"
	lp03Income  flow.StepID = "q_income_range"
)

func Lp03() *flow.Variant {
	const notServed = "No momento, não atendemos este perfil"

	v := &flow.Variant{
		ID:            "lp03",
		Title:         "Verificação rápida",
		Entry:         lp03Origin,
		EmailRequired: true,
		Steps: []flow.Step{
			{
				ID:     lp03Origin,
				Prompt: "1) Qual a origem da sua renda?",
				Options: []flow.Option{
					option("CLT", "clt", flow.Disqualify("income_origin")),
					option("Autônomo / Empresário", "autonomo_empresario", flow.Disqualify("income_origin")),
					option("Servidor público / Aposentado / Pensionista", "servidor_aposentado_pensionista", flow.AdvanceTo(lp03Problem)),
				},
			},
			{
				ID:     lp03Problem,
				Prompt: "2) Qual o seu principal problema hoje?",
				Back:   lp03Origin,
				Options: []flow.Option{
					option("Dívidas de cartão de crédito / lojas", "cartao_lojas", flow.Disqualify("problem_type")),
					option("Empréstimos consignados (desconto em folha/benefício)", "consignado", flow.AdvanceTo(lp03Income)),
				},
			},
			{
				ID:     lp03Income,
				Prompt: "3) Qual sua renda mensal aproximada?",
				Back:   lp03Problem,
				Options: []flow.Option{
					option("Até R$ 3.000", "ate_3000", flow.Disqualify("income_low")),
					option("Acima de R$ 3.000", "acima_3000", flow.Complete()),
				},
			},
		},
		Outcomes: map[string]flow.Message{
			"income_origin": {
				Title: notServed,
				Body:  "Nosso atendimento é exclusivo para servidores públicos, aposentados e pensionistas, por conta do tipo de desconto em folha/benefício e da estratégia de atuação.",
			},
			"problem_type": {
				Title: notServed,
				Body:  "Nossa atuação é voltada especificamente a empréstimos consignados (desconto em folha/benefício). Para dívidas de cartão/lojas, este serviço não é o indicado.",
			},
			"income_low": {
				Title: "Obrigado pelo interesse",
				Body:  "No momento, a análise com acesso direto ao especialista é priorizada para renda familiar acima de R$ 3.000. Agradecemos por responder.",
			},
			string(flow.TerminalQualified): {
				Title: "Perfil compatível",
				Body:  "Preencha seus dados para falar com um especialista pelo WhatsApp.",
			},
		},
	}

	v.Qualify = func(a flow.Answers, _ flow.Terminal) entity.Qualification {
		return entity.Qualification{
			IncomeOrigin: labelOf(v, lp03Origin, a),
			MainProblem:  labelOf(v, lp03Problem, a),
			IncomeRange:  labelOf(v, lp03Income, a),
		}
	}

	return v
}
