package xrpl

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"nexus-server/entities"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const accountTxPageLimit = 400

// Issuer identifies the account a mint payment is drawn from. The seed
// is forwarded to the ledger's sign-and-submit call; no signing happens
// in this process.
type Issuer struct {
	Address       string
	Seed          string
	MptIssuanceID string
}

// Client is a websocket JSON-RPC client for an XRPL-style ledger. Every
// call dials a fresh connection and closes it before returning; there is
// no pooling and no retry.
type Client struct {
	url     string
	timeout time.Duration
	log     *zap.Logger
}

func NewClient(url string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{url: url, timeout: timeout, log: log}
}

// AccountTx returns the complete transaction history of an account in
// the ledger's natural order, following the server-issued marker cursor
// until exhausted. Any transport or ledger-level failure aborts the
// whole call.
func (c *Client) AccountTx(ctx context.Context, account string) ([]TransactionEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.dial(ctx)
	if err != nil {
		return nil, &entities.UpstreamError{Op: "dial", Err: err}
	}
	defer conn.Close()

	var (
		all    []TransactionEntry
		marker json.RawMessage
		id     int
	)
	for {
		id++
		req := rpcRequest{
			ID:             id,
			Command:        "account_tx",
			Account:        account,
			LedgerIndexMin: -1,
			LedgerIndexMax: -1,
			Limit:          accountTxPageLimit,
			Marker:         marker,
		}
		var result accountTxResult
		if err := c.roundTrip(ctx, conn, &req, &result); err != nil {
			return nil, &entities.UpstreamError{Op: "account_tx", Err: err}
		}

		all = append(all, result.Transactions...)
		marker = result.Marker
		if len(marker) == 0 || string(marker) == "null" {
			break
		}
	}

	c.log.Info("fetched account transactions",
		zap.String("account", account),
		zap.Int("pages", id),
		zap.Int("transactions", len(all)))
	return all, nil
}

// SubmitPayment submits a token Payment of value (smallest unit) from
// the issuer to the destination account. Success means the ledger
// answered the submission with a tesSUCCESS engine result.
func (c *Client) SubmitPayment(ctx context.Context, issuer Issuer, destination string, value int64) (*PaymentResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.dial(ctx)
	if err != nil {
		return nil, &entities.UpstreamError{Op: "dial", Err: err}
	}
	defer conn.Close()

	req := rpcRequest{
		ID:      1,
		Command: "submit",
		TxJSON: paymentTx{
			TransactionType: "Payment",
			Account:         issuer.Address,
			Destination:     destination,
			Amount: paymentAmount{
				MptIssuanceID: issuer.MptIssuanceID,
				Value:         strconv.FormatInt(value, 10),
			},
		},
		Seed:    issuer.Seed,
		KeyType: "secp256k1",
	}
	var result submitResult
	if err := c.roundTrip(ctx, conn, &req, &result); err != nil {
		return nil, &entities.UpstreamError{Op: "submit", Err: err}
	}

	res := &PaymentResult{
		Success:      result.EngineResult == "tesSUCCESS",
		EngineResult: result.EngineResult,
		Hash:         result.TxJSON.Hash,
	}
	c.log.Info("payment submitted",
		zap.String("destination", destination),
		zap.Int64("value", value),
		zap.String("engine_result", res.EngineResult),
		zap.String("hash", res.Hash))
	return res, nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.url, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
		conn.SetWriteDeadline(deadline)
	}
	return conn, nil
}

// roundTrip writes one request and decodes the matching response result,
// surfacing ledger-level errors ("status": "error") as plain errors.
func (c *Client) roundTrip(ctx context.Context, conn *websocket.Conn, req *rpcRequest, result interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := conn.WriteJSON(req); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	var resp rpcResponse
	if err := conn.ReadJSON(&resp); err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if resp.Status != "success" {
		msg := resp.ErrorMessage
		if msg == "" {
			msg = resp.Error
		}
		return fmt.Errorf("%s: %s", req.Command, msg)
	}
	if err := json.Unmarshal(resp.Result, result); err != nil {
		return fmt.Errorf("decode %s result: %w", req.Command, err)
	}
	return nil
}
