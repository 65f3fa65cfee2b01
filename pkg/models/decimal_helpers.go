package models

import "github.com/shopspring/decimal"

// ToFloat64 safely converts decimal to float64
func ToFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// Round2 rounds half away from zero to two decimal places
func Round2(v float64) float64 {
	return ToFloat64(decimal.NewFromFloat(v).Round(2))
}
