package derive

import (
	"time"

	"dexfeed/internal/domain"
	"dexfeed/internal/state"

	"github.com/shopspring/decimal"
)

// bucketTime floors a trade timestamp to the start of its clock hour (UTC).
func bucketTime(ts int64) time.Time {
	return time.Unix(ts, 0).UTC().Truncate(time.Hour)
}

// Candles derives the hourly OHLC series plus the latest-price summary.
// Trades within one clock hour collapse into a single candle: open is the
// earliest trade's price, close the latest, high/low the extremes. Candles
// come out ascending by bucket time. Fewer than two trades never raises:
// missing prices default to zero, and the change sign falls out of the
// comparison (zero >= zero is "+").
func Candles(snap state.Snapshot) *domain.CandleSeries {
	trades := tradesAscending(snap)

	prices := make([]decimal.Decimal, len(trades))
	for i, t := range trades {
		baseAmount, quoteAmount := splitAmounts(&t.Order)
		prices[i] = Price(baseAmount, quoteAmount)
	}

	var bucketOrder []time.Time
	buckets := make(map[time.Time][]decimal.Decimal)
	for i, t := range trades {
		bt := bucketTime(t.Timestamp)
		if _, seen := buckets[bt]; !seen {
			bucketOrder = append(bucketOrder, bt)
		}
		buckets[bt] = append(buckets[bt], prices[i])
	}

	candles := make([]domain.Candle, 0, len(bucketOrder))
	for _, bt := range bucketOrder {
		group := buckets[bt]
		c := domain.Candle{
			Time:  bt,
			Open:  group[0],
			High:  group[0],
			Low:   group[0],
			Close: group[len(group)-1],
		}
		for _, p := range group[1:] {
			if p.GreaterThan(c.High) {
				c.High = p
			}
			if p.LessThan(c.Low) {
				c.Low = p
			}
		}
		candles = append(candles, c)
	}

	lastPrice := decimal.Zero
	secondLastPrice := decimal.Zero
	if len(prices) >= 1 {
		lastPrice = prices[len(prices)-1]
	}
	if len(prices) >= 2 {
		secondLastPrice = prices[len(prices)-2]
	}

	change := "-"
	if lastPrice.GreaterThanOrEqual(secondLastPrice) {
		change = "+"
	}

	return &domain.CandleSeries{
		LastPrice:       lastPrice,
		LastPriceChange: change,
		Candles:         candles,
	}
}
