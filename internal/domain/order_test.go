package domain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestOrder_Side(t *testing.T) {
	token := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	t.Run("Giving Base Asset Is A Buy", func(t *testing.T) {
		o := Order{
			ID:         1,
			TokenGive:  BaseAsset,
			AmountGive: big.NewInt(1),
			TokenGet:   token,
			AmountGet:  big.NewInt(2),
		}
		if o.Side() != SideBuy {
			t.Errorf("Expected %s, got %s", SideBuy, o.Side())
		}
	})

	t.Run("Giving Token Is A Sell", func(t *testing.T) {
		o := Order{
			ID:         2,
			TokenGive:  token,
			AmountGive: big.NewInt(2),
			TokenGet:   BaseAsset,
			AmountGet:  big.NewInt(1),
		}
		if o.Side() != SideSell {
			t.Errorf("Expected %s, got %s", SideSell, o.Side())
		}
	})
}
