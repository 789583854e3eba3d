package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// BaseAsset is the marker address the exchange contract uses for the
// network's native settlement unit. Orders giving this asset are buys of the
// traded token; everything else is a sell.
var BaseAsset = common.HexToAddress("0x0000000000000000000000000000000000000000")

const (
	SideBuy  = "buy"
	SideSell = "sell"

	// Display classes carried over from the exchange frontend.
	ClassGreen = "success"
	ClassRed   = "danger"

	SignBuy  = "+"
	SignSell = "-"
)

// Order is the canonical record behind a contract Order event. Amounts are
// raw chain values (wei scale, arbitrary precision); Timestamp is unix
// seconds. Records are immutable once ingested.
type Order struct {
	ID         uint64
	User       common.Address
	TokenGet   common.Address
	AmountGet  *big.Int
	TokenGive  common.Address
	AmountGive *big.Int
	Timestamp  int64
}

// Side classifies the order from the token's point of view: giving the base
// asset means buying the token. Classification depends only on TokenGive,
// never on which party initiated.
func (o *Order) Side() string {
	if o.TokenGive == BaseAsset {
		return SideBuy
	}
	return SideSell
}

// Cancel marks an order as cancelled. The contract re-emits the order's
// fields; Timestamp is the cancellation time.
type Cancel struct {
	Order
}

// Trade records a fill of an order. The embedded fields are the maker's
// order as re-emitted by the contract, Timestamp is the trade time, and
// UserFill is the counterparty (taker).
type Trade struct {
	Order
	UserFill common.Address
}

// Order lifecycle states. An order is in exactly one of these; when a data
// anomaly puts an id in both the filled and cancelled sets, Filled wins.
const (
	StatusOpen      = "OPEN"
	StatusFilled    = "FILLED"
	StatusCancelled = "CANCELLED"
)

// TokenBalance is the payload of a Deposit/Withdraw notification. It only
// triggers a balance-view refresh and never touches order-book state.
type TokenBalance struct {
	Token   common.Address
	User    common.Address
	Balance *big.Int
}
