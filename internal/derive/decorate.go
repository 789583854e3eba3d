// Package derive computes the queryable market views from state snapshots.
// Every function here is pure and deterministic: same snapshot in, same
// view out. All decoration, grouping, sorting and rounding rules live here.
package derive

import (
	"math/big"
	"time"

	"dexfeed/internal/domain"

	"github.com/shopspring/decimal"
)

// PriceScale is the rounding resolution for derived prices. The upstream
// frontend documented it as five decimal places while using 10000; the
// literal value is kept as-is.
const PriceScale = 10000

// weiExponent converts raw chain amounts into whole asset units.
const weiExponent = -18

const timeLayout = "3:04:05 pm 1/2/2006"

var priceScaleDec = decimal.NewFromInt(PriceScale)

// Price computes base/quote rounded to the fixed resolution:
// round(base/quote*PriceScale)/PriceScale. Inputs are raw chain integers of
// arbitrary size. A zero or missing quote yields zero rather than an error.
func Price(baseAmount, quoteAmount *big.Int) decimal.Decimal {
	if baseAmount == nil || quoteAmount == nil || quoteAmount.Sign() == 0 {
		return decimal.Zero
	}
	base := decimal.NewFromBigInt(baseAmount, 0)
	quote := decimal.NewFromBigInt(quoteAmount, 0)
	return base.Div(quote).Mul(priceScaleDec).Round(0).Div(priceScaleDec)
}

// toUnits converts a raw wei-scale amount to whole units.
func toUnits(amount *big.Int) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, weiExponent)
}

// splitAmounts maps an order's give/get amounts onto (base, quote) according
// to which side holds the base-asset marker.
func splitAmounts(o *domain.Order) (baseAmount, quoteAmount *big.Int) {
	if o.TokenGive == domain.BaseAsset {
		return o.AmountGive, o.AmountGet
	}
	return o.AmountGet, o.AmountGive
}

func formatTime(ts int64) string {
	return time.Unix(ts, 0).Format(timeLayout)
}

// decorateOrder computes the shared display fields for an order record.
func decorateOrder(o domain.Order) domain.DecoratedOrder {
	baseAmount, quoteAmount := splitAmounts(&o)
	side := o.Side()

	d := domain.DecoratedOrder{
		Order:         o,
		BaseAmount:    toUnits(baseAmount),
		QuoteAmount:   toUnits(quoteAmount),
		Price:         Price(baseAmount, quoteAmount),
		FormattedTime: formatTime(o.Timestamp),
		OrderSide:     side,
	}
	if side == domain.SideBuy {
		d.SideClass = domain.ClassGreen
		d.FillSide = domain.SideSell
	} else {
		d.SideClass = domain.ClassRed
		d.FillSide = domain.SideBuy
	}
	return d
}

// decorateTrade computes the shared display fields for a trade record.
// View-specific fields (price class, sign) are layered on by the callers.
func decorateTrade(t domain.Trade) domain.DecoratedTrade {
	baseAmount, quoteAmount := splitAmounts(&t.Order)

	return domain.DecoratedTrade{
		Trade:         t,
		BaseAmount:    toUnits(baseAmount),
		QuoteAmount:   toUnits(quoteAmount),
		Price:         Price(baseAmount, quoteAmount),
		FormattedTime: formatTime(t.Timestamp),
		OrderSide:     t.Side(),
	}
}
