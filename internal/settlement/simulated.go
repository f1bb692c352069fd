package settlement

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/sha3"
)

var faucetGrant = decimal.RequireFromString("1000.00")

// SimulatedWallet keeps its balance in memory and never touches a network.
// Transaction hashes are Keccak-256 digests of the transfer, so they look
// like chain hashes and are unique per transfer.
type SimulatedWallet struct {
	mu      sync.Mutex
	address string
	network string
	balance decimal.Decimal
	nonce   uint64
	now     func() time.Time
}

// NewSimulatedWallet loads address, or creates a fresh one when empty
func NewSimulatedWallet(network, address string, balance decimal.Decimal) *SimulatedWallet {
	if network == "" {
		network = NetworkSepolia
	}
	if address == "" {
		address = generateAddress()
		log.Printf("[SETTLEMENT] Created simulated wallet %s; persist it with PAYROLL_WALLET_ADDRESS=%s", address, address)
	} else {
		log.Printf("[SETTLEMENT] Loaded simulated wallet %s", address)
	}
	if network == NetworkMainnet {
		log.Printf("[SETTLEMENT] WARNING: simulated wallet configured for %s", network)
	}

	return &SimulatedWallet{
		address: address,
		network: network,
		balance: balance,
		now:     time.Now,
	}
}

func (w *SimulatedWallet) Address() string { return w.address }
func (w *SimulatedWallet) Network() string { return w.network }

func (w *SimulatedWallet) GetBalance(ctx context.Context, asset string) (decimal.Decimal, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balance, nil
}

func (w *SimulatedWallet) Transfer(ctx context.Context, to string, amount decimal.Decimal, asset string) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ValidAddress(to) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, to)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w, got %s", ErrInvalidAmount, amount)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.balance.LessThan(amount) {
		return nil, fmt.Errorf("%w: balance=%s %s, required=%s", ErrInsufficientFunds, w.balance, strings.ToUpper(asset), amount)
	}
	w.balance = w.balance.Sub(amount)
	w.nonce++

	hash := w.transactionHash(to, amount, asset)
	return &Receipt{
		TransactionHash: hash,
		TransactionLink: ExplorerLink(w.network, hash),
	}, nil
}

// RequestFaucet credits the testnet grant. Mainnet wallets are refused.
func (w *SimulatedWallet) RequestFaucet(ctx context.Context, asset string) error {
	if w.network == NetworkMainnet {
		return ErrFaucetUnavailable
	}

	w.mu.Lock()
	w.balance = w.balance.Add(faucetGrant)
	w.mu.Unlock()

	log.Printf("[SETTLEMENT] Faucet credited %s %s to %s", faucetGrant.StringFixed(2), strings.ToUpper(asset), w.address)
	return nil
}

func (w *SimulatedWallet) transactionHash(to string, amount decimal.Decimal, asset string) string {
	h := sha3.NewLegacyKeccak256()
	fmt.Fprintf(h, "%s|%s|%s|%s|%d|%d", w.address, to, amount.String(), asset, w.nonce, w.now().UnixNano())
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// generateAddress derives an address the way accounts are derived on chain:
// the last 20 bytes of a Keccak-256 digest
func generateAddress() string {
	seed := uuid.New()
	h := sha3.NewLegacyKeccak256()
	h.Write(seed[:])
	sum := h.Sum(nil)
	return "0x" + hex.EncodeToString(sum[len(sum)-20:])
}
