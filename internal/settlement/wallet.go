// Package settlement pays out net salaries from a funded wallet, one
// transfer per employee, and reports every transfer's outcome.
package settlement

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	NetworkMainnet = "base-mainnet"
	NetworkSepolia = "base-sepolia"

	ModeSimulated = "simulated"
	ModeGateway   = "gateway"

	DefaultAsset = "usdc"
)

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// ValidAddress reports whether addr is a 0x-prefixed 20-byte hex address
func ValidAddress(addr string) bool {
	return addressPattern.MatchString(addr)
}

// Receipt identifies a completed transfer
type Receipt struct {
	TransactionHash string `json:"transaction_hash"`
	TransactionLink string `json:"transaction_link"`
}

// Wallet is the funded source account
type Wallet interface {
	Address() string
	Network() string
	GetBalance(ctx context.Context, asset string) (decimal.Decimal, error)
	Transfer(ctx context.Context, to string, amount decimal.Decimal, asset string) (*Receipt, error)
}

// Funder is implemented by wallets that can request testnet funds
type Funder interface {
	RequestFaucet(ctx context.Context, asset string) error
}

// Config selects and parameterizes the wallet variant
type Config struct {
	Mode           string
	Network        string
	Asset          string
	WalletAddress  string
	InitialBalance decimal.Decimal
	GatewayURL     string
	APIKey         string
	Timeout        time.Duration
}

// GetConfig reads the settlement keys from viper
func GetConfig() *Config {
	viper.SetDefault("settlement.mode", ModeSimulated)
	viper.SetDefault("settlement.network", NetworkSepolia)
	viper.SetDefault("settlement.asset", DefaultAsset)
	viper.SetDefault("settlement.wallet_address", "")
	viper.SetDefault("settlement.initial_balance", "10000.00")
	viper.SetDefault("settlement.gateway_url", "")
	viper.SetDefault("settlement.api_key", "")
	viper.SetDefault("settlement.timeout", 15*time.Second)

	balance, err := decimal.NewFromString(viper.GetString("settlement.initial_balance"))
	if err != nil {
		balance = decimal.RequireFromString("10000.00")
	}

	return &Config{
		Mode:           viper.GetString("settlement.mode"),
		Network:        viper.GetString("settlement.network"),
		Asset:          viper.GetString("settlement.asset"),
		WalletAddress:  viper.GetString("settlement.wallet_address"),
		InitialBalance: balance,
		GatewayURL:     viper.GetString("settlement.gateway_url"),
		APIKey:         viper.GetString("settlement.api_key"),
		Timeout:        viper.GetDuration("settlement.timeout"),
	}
}

// NewWallet builds the wallet variant named by cfg.Mode
func NewWallet(cfg *Config) (Wallet, error) {
	switch cfg.Mode {
	case "", ModeSimulated:
		return NewSimulatedWallet(cfg.Network, cfg.WalletAddress, cfg.InitialBalance), nil
	case ModeGateway:
		if cfg.GatewayURL == "" {
			return nil, fmt.Errorf("settlement.gateway_url is required in %s mode", ModeGateway)
		}
		if !ValidAddress(cfg.WalletAddress) {
			return nil, fmt.Errorf("settlement.wallet_address: %w: %q", ErrInvalidAddress, cfg.WalletAddress)
		}
		return NewGatewayWallet(cfg.GatewayURL, cfg.APIKey, cfg.Network, cfg.WalletAddress, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}
}

// ExplorerLink returns the block explorer URL for a transaction hash
func ExplorerLink(network, txHash string) string {
	if network == NetworkMainnet {
		return "https://basescan.org/tx/" + txHash
	}
	return "https://sepolia.basescan.org/tx/" + txHash
}
