package ledger

import (
	"fmt"
	"math/big"

	"dexfeed/internal/domain"
	"dexfeed/internal/event"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// orderArgs is the wire shape shared by Order and Cancel events; Trade
// extends it with the counterparty.
type orderArgs struct {
	Id         *big.Int
	User       common.Address
	TokenGet   common.Address
	AmountGet  *big.Int
	TokenGive  common.Address
	AmountGive *big.Int
	Timestamp  *big.Int
}

type tradeArgs struct {
	Id         *big.Int
	User       common.Address
	TokenGet   common.Address
	AmountGet  *big.Int
	TokenGive  common.Address
	AmountGive *big.Int
	UserFill   common.Address
	Timestamp  *big.Int
}

type balanceArgs struct {
	Token   common.Address
	User    common.Address
	Amount  *big.Int
	Balance *big.Int
}

// toOrder validates the decoded args into a canonical record. Any missing
// field means the whole event is dropped; nothing partial is ever built.
func (a *orderArgs) toOrder() (domain.Order, error) {
	if a.Id == nil || a.AmountGet == nil || a.AmountGive == nil || a.Timestamp == nil {
		return domain.Order{}, domain.ErrMalformedEvent
	}
	if !a.Id.IsUint64() {
		return domain.Order{}, fmt.Errorf("%w: id out of range", domain.ErrMalformedEvent)
	}
	if !a.Timestamp.IsInt64() {
		return domain.Order{}, fmt.Errorf("%w: timestamp out of range", domain.ErrMalformedEvent)
	}
	return domain.Order{
		ID:         a.Id.Uint64(),
		User:       a.User,
		TokenGet:   a.TokenGet,
		AmountGet:  a.AmountGet,
		TokenGive:  a.TokenGive,
		AmountGive: a.AmountGive,
		Timestamp:  a.Timestamp.Int64(),
	}, nil
}

// DecodeLog normalizes one raw contract log into a typed engine event.
// Unknown topics and malformed payloads return an error and no event.
func (c *Client) DecodeLog(lg ethtypes.Log) (event.Event, error) {
	if len(lg.Topics) == 0 {
		return nil, domain.ErrMalformedEvent
	}

	switch lg.Topics[0] {
	case c.abi.Events["Order"].ID:
		var args orderArgs
		if err := c.abi.UnpackIntoInterface(&args, "Order", lg.Data); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
		}
		order, err := args.toOrder()
		if err != nil {
			return nil, err
		}
		ev := event.AcquireOrderPlaced()
		ev.Order = order
		return ev, nil

	case c.abi.Events["Cancel"].ID:
		var args orderArgs
		if err := c.abi.UnpackIntoInterface(&args, "Cancel", lg.Data); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
		}
		order, err := args.toOrder()
		if err != nil {
			return nil, err
		}
		return &event.OrderCancelled{Cancel: domain.Cancel{Order: order}}, nil

	case c.abi.Events["Trade"].ID:
		var args tradeArgs
		if err := c.abi.UnpackIntoInterface(&args, "Trade", lg.Data); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
		}
		shared := orderArgs{
			Id:         args.Id,
			User:       args.User,
			TokenGet:   args.TokenGet,
			AmountGet:  args.AmountGet,
			TokenGive:  args.TokenGive,
			AmountGive: args.AmountGive,
			Timestamp:  args.Timestamp,
		}
		order, err := shared.toOrder()
		if err != nil {
			return nil, err
		}
		ev := event.AcquireTradeExecuted()
		ev.Trade = domain.Trade{Order: order, UserFill: args.UserFill}
		return ev, nil

	case c.abi.Events["Deposit"].ID, c.abi.Events["Withdraw"].ID:
		name := "Deposit"
		if lg.Topics[0] == c.abi.Events["Withdraw"].ID {
			name = "Withdraw"
		}
		var args balanceArgs
		if err := c.abi.UnpackIntoInterface(&args, name, lg.Data); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
		}
		if args.Balance == nil {
			return nil, domain.ErrMalformedEvent
		}
		return &event.BalanceChanged{Balance: domain.TokenBalance{
			Token:   args.Token,
			User:    args.User,
			Balance: args.Balance,
		}}, nil

	default:
		return nil, fmt.Errorf("%w: unknown topic %s", domain.ErrMalformedEvent, lg.Topics[0])
	}
}
