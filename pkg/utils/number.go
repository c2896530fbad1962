package utils

import "github.com/shopspring/decimal"

// KPIPrecision é a quantidade de casas decimais de todos os KPIs
const KPIPrecision = 2

// RoundWithTwoDecimalPlace arredonda meio para longe do zero (1.005 -> 1.01)
func RoundWithTwoDecimalPlace(d decimal.Decimal) decimal.Decimal {
	return d.Round(KPIPrecision)
}

// SafeRatio calcula numerator*scale/denominator arredondado em duas casas.
// Denominador zero retorna NullDecimal inválido em vez de erro.
func SafeRatio(numerator, denominator decimal.Decimal, scale int64) decimal.NullDecimal {
	if denominator.IsZero() {
		return decimal.NullDecimal{}
	}

	value := numerator.Mul(decimal.NewFromInt(scale)).Div(denominator)
	return decimal.NewNullDecimal(RoundWithTwoDecimalPlace(value))
}
