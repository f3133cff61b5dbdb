package variants

import (
	"leadfunnel/entity"
	"leadfunnel/funnel/flow"
)

const (
	lp02Benefit   flow.StepID = "q_benefit"
	lp02Direct    flow.StepID = "q_direct_discount"
	lp02Contracts flow.StepID = "q_contracts"
	lp02Discount  flow.StepID = "q_discount_range"
	lp02PaidAware flow.StepID = "q_paid_aware"
)

const (
	lp02DirectHint    = "No momento, a triagem é para casos em que o desconto ocorre no benefício do INSS. Se você não tiver certeza, selecione “Não sei”."
	lp02ContractsHint = "Para esta triagem, priorizamos casos com múltiplos contratos. Se você tiver apenas 1, você pode ler as informações da página e voltar quando fizer sentido."
	lp02DiscountHint  = "Para esta triagem, priorizamos casos com descontos mensais mais elevados. Se o seu desconto for menor, você pode ler as informações da página e voltar quando fizer sentido."
)

// Lp02 blocks low-fit answers in place instead of ending the dialog.
func Lp02() *flow.Variant {
	v := &flow.Variant{
		ID:              "lp02",
		Title:           "Triagem do consignado INSS",
		Entry:           lp02Benefit,
		EmailRequired:   true,
		ConsentRequired: true,
		Steps: []flow.Step{
			{
				ID:     lp02Benefit,
				Prompt: "Você recebe benefício do INSS?",
				Options: []flow.Option{
					option("Aposentadoria", "aposentadoria", flow.AdvanceTo(lp02Direct)),
					option("Pensão", "pensao", flow.AdvanceTo(lp02Direct)),
					option("Não (CLT/MEI/outros)", "nao", flow.Disqualify("not_inss")),
				},
			},
			{
				ID:     lp02Direct,
				Prompt: "O empréstimo consignado é descontado diretamente do seu benefício?",
				Back:   lp02Benefit,
				Options: []flow.Option{
					option("Sim", "sim", flow.AdvanceTo(lp02Contracts)),
					hinted("Não", "nao", lp02DirectHint, flow.Hold()),
					option("Não sei", "nao_sei", flow.AdvanceTo(lp02Contracts)),
				},
			},
			{
				ID:     lp02Contracts,
				Prompt: "Quantos contratos de consignado você tem hoje?",
				Back:   lp02Direct,
				Options: []flow.Option{
					hinted("1", "1", lp02ContractsHint, flow.Hold()),
					option("2–3", "2-3", flow.AdvanceTo(lp02Discount)),
					option("4 ou mais", "4+", flow.AdvanceTo(lp02Discount)),
					option("Não sei", "nao_sei", flow.AdvanceTo(lp02Discount)),
				},
			},
			{
				ID:     lp02Discount,
				Prompt: "Qual é o desconto total mensal aproximado no benefício?",
				Back:   lp02Contracts,
				Options: []flow.Option{
					hinted("até R$150", "ate_150", lp02DiscountHint, flow.Hold()),
					hinted("R$151–R$350", "151_350", lp02DiscountHint, flow.Hold()),
					option("R$351–R$700", "351_700", flow.AdvanceTo(lp02PaidAware)),
					option("acima de R$700", "acima_700", flow.AdvanceTo(lp02PaidAware)),
					option("Não sei", "nao_sei", flow.AdvanceTo(lp02PaidAware)),
				},
			},
			{
				ID:     lp02PaidAware,
				Prompt: "Você entende que se trata de serviço jurídico remunerado e que a viabilidade depende de análise?",
				Back:   lp02Discount,
				Options: []flow.Option{
					option("Sim", "sim", flow.Complete()),
					option("Não", "nao", flow.Disqualify("paid")),
				},
			},
		},
		Outcomes: map[string]flow.Message{
			"not_inss": {
				Title: "Triagem do consignado INSS",
				Body:  "No momento, atuamos apenas em casos de consignado com desconto no benefício do INSS.",
			},
			"paid": {
				Title: "Obrigado!",
				Body:  "Este atendimento é um serviço jurídico remunerado, realizado mediante contrato. Se fizer sentido para você, volte quando quiser e refaça a triagem.",
			},
			string(flow.TerminalQualified): {
				Title: "Dados para retorno",
				Body:  "Preencha para retornarmos pelo WhatsApp.",
			},
		},
	}

	v.Qualify = func(a flow.Answers, _ flow.Terminal) entity.Qualification {
		var s summary
		s.add("Benefício: ", labelOf(v, lp02Benefit, a))
		s.add("Desconto no benefício: ", labelOf(v, lp02Direct, a))
		s.add("Contratos: ", labelOf(v, lp02Contracts, a))
		s.add("Desconto mensal: ", labelOf(v, lp02Discount, a))
		s.add("Ciente (serviço jurídico remunerado): ", labelOf(v, lp02PaidAware, a))

		return entity.Qualification{
			IsInssRetireeOrPensioner: entity.Bool(oneOf(a[lp02Benefit], "aposentadoria", "pensao")),
			DiscountReason:           s.String(),
		}
	}

	return v
}
