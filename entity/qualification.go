package entity

import "strings"

type BenefitAnswer string

const (
	BenefitYes     BenefitAnswer = "yes"
	BenefitNo      BenefitAnswer = "no"
	BenefitUnknown BenefitAnswer = "unknown"
)

// Qualification is the flattened record a variant builds from its answers.
// Zero values mean "not collected" and never reach the wire.
type Qualification struct {
	IsInssRetireeOrPensioner *bool         `json:"isInssRetireeOrPensioner,omitempty" bson:"is_inss,omitempty"`
	BenefitAbove2k           BenefitAnswer `json:"benefitAbove2k,omitempty" bson:"benefit_above_2k,omitempty"`
	BenefitRange             string        `json:"benefitRange,omitempty" bson:"benefit_range,omitempty"`
	Age                      *int          `json:"age,omitempty" bson:"age,omitempty"`
	InssSituation            string        `json:"inssSituation,omitempty" bson:"inss_situation,omitempty"`
	DebtType                 string        `json:"debtType,omitempty" bson:"debt_type,omitempty"`
	DiscountRange            string        `json:"discountRange,omitempty" bson:"discount_range,omitempty"`
	BenefitAmount            *float64      `json:"benefitAmount,omitempty" bson:"benefit_amount,omitempty"`
	DebtsTotal               *float64      `json:"debtsTotal,omitempty" bson:"debts_total,omitempty"`
	BankMain                 string        `json:"bankMain,omitempty" bson:"bank_main,omitempty"`
	LeadType                 string        `json:"leadType,omitempty" bson:"lead_type,omitempty"`
	DiscountReason           string        `json:"discountReason,omitempty" bson:"discount_reason,omitempty"`
	IncomeOrigin             string        `json:"incomeOrigin,omitempty" bson:"income_origin,omitempty"`
	MainProblem              string        `json:"mainProblem,omitempty" bson:"main_problem,omitempty"`
	IncomeRange              string        `json:"incomeRange,omitempty" bson:"income_range,omitempty"`
}

// Attribute names expected by the leads endpoint.
const (
	FieldIsInss         = "Aposentado/Pensionista INSS"
	FieldBenefitAbove2k = "Benefício acima de R$ 2.000?"
	FieldBenefitRange   = "Faixa do benefício"
	FieldAge            = "Idade"
	FieldInssSituation  = "Situação perante o INSS"
	FieldDebtType       = "Tipo de dívida"
	FieldDiscountRange  = "Faixa de descontos"
	FieldBenefitAmount  = "Valor do benefício (R$)"
	FieldDebtsTotal     = "Total de dívidas (R$)"
	FieldBankMain       = "Banco principal"
	FieldLeadType       = "Tipo de lead"
	FieldDiscountReason = "Motivo dos descontos"
	FieldIncomeOrigin   = "Origem da renda"
	FieldMainProblem    = "Principal problema"
	FieldIncomeRange    = "Renda mensal aproximada"
)

// Fields maps the record to the endpoint's attribute names, leaving out
// everything that was not collected.
func (q Qualification) Fields() map[string]any {
	fields := make(map[string]any)

	if q.IsInssRetireeOrPensioner != nil {
		if *q.IsInssRetireeOrPensioner {
			fields[FieldIsInss] = "Sim"
		} else {
			fields[FieldIsInss] = "Não"
		}
	}
	switch q.BenefitAbove2k {
	case BenefitYes:
		fields[FieldBenefitAbove2k] = "Sim"
	case BenefitNo:
		fields[FieldBenefitAbove2k] = "Não"
	case BenefitUnknown:
		fields[FieldBenefitAbove2k] = "Não sei"
	}
	if q.Age != nil {
		fields[FieldAge] = *q.Age
	}
	if q.BenefitAmount != nil {
		fields[FieldBenefitAmount] = *q.BenefitAmount
	}
	if q.DebtsTotal != nil {
		fields[FieldDebtsTotal] = *q.DebtsTotal
	}

	text := map[string]string{
		FieldBenefitRange:   q.BenefitRange,
		FieldInssSituation:  q.InssSituation,
		FieldDebtType:       q.DebtType,
		FieldDiscountRange:  q.DiscountRange,
		FieldBankMain:       q.BankMain,
		FieldLeadType:       q.LeadType,
		FieldDiscountReason: q.DiscountReason,
		FieldIncomeOrigin:   q.IncomeOrigin,
		FieldMainProblem:    q.MainProblem,
		FieldIncomeRange:    q.IncomeRange,
	}
	for k, v := range text {
		if v = strings.TrimSpace(v); v != "" {
			fields[k] = v
		}
	}

	return fields
}

func Bool(v bool) *bool {
	return &v
}

func Int(v int) *int {
	return &v
}

func Amount(v float64) *float64 {
	return &v
}
