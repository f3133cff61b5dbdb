package variants

import (
	"leadfunnel/entity"
	"leadfunnel/funnel/flow"
)

const lp07Situation flow.StepID = "q_situation"

var lp07Origins = map[string]string{
	"aposentado":       "Aposentado",
	"servidor_publico": "Servidor público",
	"clt":              "CLT",
}

func Lp07() *flow.Variant {
	v := &flow.Variant{
		ID:            "lp07",
		Title:         "Triagem rápida",
		Entry:         lp07Situation,
		EmailRequired: true,
		Steps: []flow.Step{
			{
				ID:     lp07Situation,
				Prompt: "Qual sua situação?",
				Options: []flow.Option{
					option("1 - Aposentado", "aposentado", flow.Complete()),
					option("2 - Servidor público", "servidor_publico", flow.Complete()),
					option("3 - CLT", "clt", flow.Disqualify("clt")),
				},
			},
		},
		Outcomes: map[string]flow.Message{
			"clt": {
				Title: "Obrigado pelo interesse",
				Body:  "No momento não atendemos casos CLT. Nosso atendimento é exclusivo para servidores públicos e beneficiários do INSS.",
			},
			string(flow.TerminalQualified): {
				Title: "Seus dados",
				Body:  "Preencha para um especialista falar com você pelo WhatsApp.",
			},
		},
	}

	v.Qualify = func(a flow.Answers, _ flow.Terminal) entity.Qualification {
		return entity.Qualification{IncomeOrigin: lp07Origins[a[lp07Situation]]}
	}

	return v
}
