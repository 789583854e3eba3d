// Package ledger is the boundary to the exchange contract: it resolves the
// deployment, bulk-loads past events and follows live ones, and normalizes
// raw logs into typed records. No validation against consensus rules
// happens here; the node is trusted for that.
package ledger

import (
	"context"
	"strings"

	"dexfeed/internal/domain"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// exchangeABI covers the five event streams the engine consumes. The
// state-changing surface of the contract is deliberately absent: this
// client only reads.
const exchangeABI = `[
  {"type":"event","name":"Order","anonymous":false,"inputs":[
    {"indexed":false,"internalType":"uint256","name":"id","type":"uint256"},
    {"indexed":false,"internalType":"address","name":"user","type":"address"},
    {"indexed":false,"internalType":"address","name":"tokenGet","type":"address"},
    {"indexed":false,"internalType":"uint256","name":"amountGet","type":"uint256"},
    {"indexed":false,"internalType":"address","name":"tokenGive","type":"address"},
    {"indexed":false,"internalType":"uint256","name":"amountGive","type":"uint256"},
    {"indexed":false,"internalType":"uint256","name":"timestamp","type":"uint256"}]},
  {"type":"event","name":"Cancel","anonymous":false,"inputs":[
    {"indexed":false,"internalType":"uint256","name":"id","type":"uint256"},
    {"indexed":false,"internalType":"address","name":"user","type":"address"},
    {"indexed":false,"internalType":"address","name":"tokenGet","type":"address"},
    {"indexed":false,"internalType":"uint256","name":"amountGet","type":"uint256"},
    {"indexed":false,"internalType":"address","name":"tokenGive","type":"address"},
    {"indexed":false,"internalType":"uint256","name":"amountGive","type":"uint256"},
    {"indexed":false,"internalType":"uint256","name":"timestamp","type":"uint256"}]},
  {"type":"event","name":"Trade","anonymous":false,"inputs":[
    {"indexed":false,"internalType":"uint256","name":"id","type":"uint256"},
    {"indexed":false,"internalType":"address","name":"user","type":"address"},
    {"indexed":false,"internalType":"address","name":"tokenGet","type":"address"},
    {"indexed":false,"internalType":"uint256","name":"amountGet","type":"uint256"},
    {"indexed":false,"internalType":"address","name":"tokenGive","type":"address"},
    {"indexed":false,"internalType":"uint256","name":"amountGive","type":"uint256"},
    {"indexed":false,"internalType":"address","name":"userFill","type":"address"},
    {"indexed":false,"internalType":"uint256","name":"timestamp","type":"uint256"}]},
  {"type":"event","name":"Deposit","anonymous":false,"inputs":[
    {"indexed":false,"internalType":"address","name":"token","type":"address"},
    {"indexed":false,"internalType":"address","name":"user","type":"address"},
    {"indexed":false,"internalType":"uint256","name":"amount","type":"uint256"},
    {"indexed":false,"internalType":"uint256","name":"balance","type":"uint256"}]},
  {"type":"event","name":"Withdraw","anonymous":false,"inputs":[
    {"indexed":false,"internalType":"address","name":"token","type":"address"},
    {"indexed":false,"internalType":"address","name":"user","type":"address"},
    {"indexed":false,"internalType":"uint256","name":"amount","type":"uint256"},
    {"indexed":false,"internalType":"uint256","name":"balance","type":"uint256"}]}
]`

// Client wraps the node connections and the parsed contract ABI. rpc is
// used for the one-shot history fetch, ws for the live subscription; they
// may be the same endpoint.
type Client struct {
	rpc      *ethclient.Client
	ws       *ethclient.Client
	exchange common.Address
	abi      abi.ABI
}

// Dial connects both endpoints and verifies the exchange contract actually
// has code on the active network. A missing deployment is reported as
// ErrContractsUnavailable, not a crash: the caller keeps views not-ready.
func Dial(ctx context.Context, rpcURL, wsURL, exchangeAddr string) (*Client, error) {
	parsed, err := abi.JSON(strings.NewReader(exchangeABI))
	if err != nil {
		return nil, err
	}

	rpc, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, domain.NewNetworkError("dial", err)
	}

	ws := rpc
	if wsURL != rpcURL {
		ws, err = ethclient.DialContext(ctx, wsURL)
		if err != nil {
			rpc.Close()
			return nil, domain.NewNetworkError("dial_ws", err)
		}
	}

	c := &Client{
		rpc:      rpc,
		ws:       ws,
		exchange: common.HexToAddress(exchangeAddr),
		abi:      parsed,
	}

	code, err := rpc.CodeAt(ctx, c.exchange, nil)
	if err != nil {
		c.Close()
		return nil, domain.NewNetworkError("code_at", err)
	}
	if len(code) == 0 {
		c.Close()
		return nil, domain.ErrContractsUnavailable
	}
	return c, nil
}

// Exchange returns the resolved contract address.
func (c *Client) Exchange() common.Address {
	return c.exchange
}

// Close releases both node connections.
func (c *Client) Close() {
	if c.ws != nil && c.ws != c.rpc {
		c.ws.Close()
	}
	if c.rpc != nil {
		c.rpc.Close()
	}
}
