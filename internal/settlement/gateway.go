package settlement

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
)

// GatewayWallet drives a live wallet through the wallet gateway's JSON API
type GatewayWallet struct {
	baseURL    string
	apiKey     string
	network    string
	address    string
	timeout    time.Duration
	httpClient *fasthttp.Client
}

type balanceResponse struct {
	Asset  string          `json:"asset"`
	Amount decimal.Decimal `json:"amount"`
}

type transferRequest struct {
	To      string          `json:"to"`
	Amount  decimal.Decimal `json:"amount"`
	Asset   string          `json:"asset"`
	Network string          `json:"network"`
}

type faucetRequest struct {
	Asset   string `json:"asset"`
	Network string `json:"network"`
}

func NewGatewayWallet(baseURL, apiKey, network, address string, timeout time.Duration) *GatewayWallet {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &GatewayWallet{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		network: network,
		address: address,
		timeout: timeout,
		httpClient: &fasthttp.Client{
			Name:                "payroll-settlement",
			MaxIdleConnDuration: time.Minute,
		},
	}
}

func (g *GatewayWallet) Address() string { return g.address }
func (g *GatewayWallet) Network() string { return g.network }

func (g *GatewayWallet) GetBalance(ctx context.Context, asset string) (decimal.Decimal, error) {
	var out balanceResponse
	path := fmt.Sprintf("/v1/wallets/%s/balances/%s", url.PathEscape(g.address), url.PathEscape(asset))
	if err := g.do(ctx, "balance", fasthttp.MethodGet, path, nil, &out); err != nil {
		return decimal.Zero, err
	}
	return out.Amount, nil
}

func (g *GatewayWallet) Transfer(ctx context.Context, to string, amount decimal.Decimal, asset string) (*Receipt, error) {
	if !ValidAddress(to) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, to)
	}

	var out Receipt
	body := transferRequest{To: to, Amount: amount, Asset: asset, Network: g.network}
	path := fmt.Sprintf("/v1/wallets/%s/transfers", url.PathEscape(g.address))
	if err := g.do(ctx, "transfer", fasthttp.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	if out.TransactionHash == "" {
		return nil, fmt.Errorf("gateway transfer returned no transaction hash")
	}
	if out.TransactionLink == "" {
		out.TransactionLink = ExplorerLink(g.network, out.TransactionHash)
	}
	return &out, nil
}

func (g *GatewayWallet) RequestFaucet(ctx context.Context, asset string) error {
	if g.network == NetworkMainnet {
		return ErrFaucetUnavailable
	}
	path := fmt.Sprintf("/v1/wallets/%s/faucet", url.PathEscape(g.address))
	return g.do(ctx, "faucet", fasthttp.MethodPost, path, faucetRequest{Asset: asset, Network: g.network}, nil)
}

func (g *GatewayWallet) do(ctx context.Context, op, method, path string, in, out any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(g.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	if g.apiKey != "" {
		req.Header.Set("X-API-Key", g.apiKey)
	}
	if in != nil {
		reqBody, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(reqBody)
	}

	timeout := g.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := g.httpClient.DoTimeout(req, resp, timeout); err != nil {
		return fmt.Errorf("gateway %s request failed: %w", op, err)
	}

	if status := resp.StatusCode(); status < 200 || status >= 300 {
		return &GatewayError{Operation: op, StatusCode: status, Body: strings.TrimSpace(string(resp.Body()))}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}
