package money

import "github.com/shopspring/decimal"

// LineTotal computes quantity * unitPrice * (1 - discountPercent/100),
// rounded half-up to whole currency units. Prices are whole-unit VND so
// there is no minor unit to carry.
func LineTotal(unitPrice int64, discountPercent float64, quantity int) int64 {
	price := decimal.NewFromInt(unitPrice)
	qty := decimal.NewFromInt(int64(quantity))
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discountPercent).Div(decimal.NewFromInt(100)))
	return price.Mul(qty).Mul(factor).Round(0).IntPart()
}

// Sum adds a slice of whole-unit amounts.
func Sum(amounts []int64) int64 {
	var total int64
	for _, amount := range amounts {
		total += amount
	}
	return total
}
