package derive

import (
	"testing"
	"time"

	"dexfeed/internal/domain"
	"dexfeed/internal/state"

	"github.com/shopspring/decimal"
)

func TestCandles_HourlyBucketing(t *testing.T) {
	hour := time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC).Unix()

	snap := state.Snapshot{Trades: []domain.Trade{
		tradeAt(1, 10, 10, hour+60),   // 10:01  price 1.0 (open)
		tradeAt(2, 15, 10, hour+600),  // 10:10  price 1.5 (high)
		tradeAt(3, 8, 10, hour+1800),  // 10:30  price 0.8 (low)
		tradeAt(4, 12, 10, hour+3500), // 10:58  price 1.2 (close)
		tradeAt(5, 11, 10, hour+3700), // 11:01  next bucket
	}}

	series := Candles(snap)
	if len(series.Candles) != 2 {
		t.Fatalf("Expected 2 candles, got %d", len(series.Candles))
	}

	first := series.Candles[0]
	if !first.Time.Equal(time.Unix(hour, 0).UTC()) {
		t.Errorf("Expected bucket at %v, got %v", time.Unix(hour, 0).UTC(), first.Time)
	}
	checks := []struct {
		name string
		got  decimal.Decimal
		want float64
	}{
		{"open", first.Open, 1.0},
		{"high", first.High, 1.5},
		{"low", first.Low, 0.8},
		{"close", first.Close, 1.2},
	}
	for _, c := range checks {
		if !c.got.Equal(decimal.NewFromFloat(c.want)) {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, c.got)
		}
	}

	second := series.Candles[1]
	if !second.Time.Equal(time.Unix(hour+3600, 0).UTC()) {
		t.Errorf("trade in the next hour must open a new bucket, got %v", second.Time)
	}
	if !second.Open.Equal(second.Close) {
		t.Error("single-trade candle should have open == close")
	}
}

func TestCandles_BucketsAscending(t *testing.T) {
	h0 := time.Date(2021, 3, 1, 8, 0, 0, 0, time.UTC).Unix()

	// trades arrive with hours interleaved
	snap := state.Snapshot{Trades: []domain.Trade{
		tradeAt(1, 10, 10, h0+2*3600),
		tradeAt(2, 10, 10, h0),
		tradeAt(3, 10, 10, h0+3600),
	}}

	series := Candles(snap)
	if len(series.Candles) != 3 {
		t.Fatalf("Expected 3 candles, got %d", len(series.Candles))
	}
	for i := 1; i < len(series.Candles); i++ {
		if !series.Candles[i].Time.After(series.Candles[i-1].Time) {
			t.Error("candles must be ordered by bucket time ascending")
		}
	}
}

func TestCandles_LastPriceChange(t *testing.T) {
	t.Run("Rising", func(t *testing.T) {
		series := Candles(state.Snapshot{Trades: []domain.Trade{
			tradeAt(1, 9, 10, 100),
			tradeAt(2, 12, 10, 200),
		}})
		if !series.LastPrice.Equal(decimal.NewFromFloat(1.2)) {
			t.Errorf("Expected last price 1.2, got %v", series.LastPrice)
		}
		if series.LastPriceChange != "+" {
			t.Errorf("Expected +, got %s", series.LastPriceChange)
		}
	})

	t.Run("Falling", func(t *testing.T) {
		series := Candles(state.Snapshot{Trades: []domain.Trade{
			tradeAt(1, 12, 10, 100),
			tradeAt(2, 9, 10, 200),
		}})
		if series.LastPriceChange != "-" {
			t.Errorf("Expected -, got %s", series.LastPriceChange)
		}
	})
}

func TestCandles_DefaultSafety(t *testing.T) {
	t.Run("No Trades", func(t *testing.T) {
		series := Candles(state.Snapshot{})
		if !series.LastPrice.IsZero() {
			t.Errorf("Expected zero last price, got %v", series.LastPrice)
		}
		if series.LastPriceChange != "+" {
			t.Errorf("zero >= zero resolves to +, got %s", series.LastPriceChange)
		}
		if len(series.Candles) != 0 {
			t.Error("no trades should yield no candles")
		}
	})

	t.Run("Single Trade", func(t *testing.T) {
		series := Candles(state.Snapshot{Trades: []domain.Trade{
			tradeAt(1, 10, 10, 100),
		}})
		if !series.LastPrice.Equal(decimal.NewFromInt(1)) {
			t.Errorf("Expected last price 1, got %v", series.LastPrice)
		}
		// second-to-last price defaults to zero, so change is "+"
		if series.LastPriceChange != "+" {
			t.Errorf("Expected +, got %s", series.LastPriceChange)
		}
		if len(series.Candles) != 1 {
			t.Fatalf("Expected 1 candle, got %d", len(series.Candles))
		}
	})
}
