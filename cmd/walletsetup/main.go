// Command walletsetup creates or loads the payroll source wallet on testnet,
// funds it from the faucet and prints how to persist its address.
package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ledgerdemain/backend/internal/config"
	"github.com/ledgerdemain/backend/internal/settlement"
)

func main() {
	config.Load(".env")

	cfg := settlement.GetConfig()
	if cfg.Network == settlement.NetworkMainnet {
		log.Fatalf("walletsetup only runs on testnet, settlement.network is %s", cfg.Network)
	}

	wallet, err := settlement.NewWallet(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize wallet: %v", err)
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("TESTNET WALLET SETUP")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Mode:    %s\n", cfg.Mode)
	fmt.Printf("Network: %s\n", wallet.Network())
	fmt.Printf("Address: %s\n\n", wallet.Address())

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	funder, ok := wallet.(settlement.Funder)
	if !ok {
		log.Fatalf("%s wallets cannot request faucet funds", cfg.Mode)
	}
	fmt.Printf("Requesting %s from the faucet...\n", strings.ToUpper(cfg.Asset))
	if err := funder.RequestFaucet(ctx, cfg.Asset); err != nil {
		log.Fatalf("Faucet request failed: %v", err)
	}

	balance, err := wallet.GetBalance(ctx, cfg.Asset)
	if err != nil {
		log.Fatalf("Balance query failed: %v", err)
	}
	fmt.Printf("Balance: %s %s\n\n", balance.StringFixed(2), strings.ToUpper(cfg.Asset))

	fmt.Println("To use this wallet, set the environment variable:")
	fmt.Printf("\n   export PAYROLL_WALLET_ADDRESS=%s\n\n", wallet.Address())
	fmt.Println("or add it to your .env file:")
	fmt.Printf("\n   PAYROLL_WALLET_ADDRESS=%s\n", wallet.Address())
}
