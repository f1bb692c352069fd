package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ledgerdemain/backend/docs"
	"github.com/ledgerdemain/backend/internal/audit"
	"github.com/ledgerdemain/backend/internal/bridge"
	"github.com/ledgerdemain/backend/internal/config"
	"github.com/ledgerdemain/backend/internal/database"
	"github.com/ledgerdemain/backend/internal/handlers"
	"github.com/ledgerdemain/backend/internal/services"
	"github.com/ledgerdemain/backend/internal/settlement"
	"github.com/shopspring/decimal"
)

// @title Payroll Bridge API
// @version 1.0
// @description Payroll calculation through the fixed-width engine and batch settlement of net pay
// @host localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	config.Load(".env")

	// amounts are JSON numbers on the wire
	decimal.MarshalJSONWithoutQuotes = true

	serverCfg := config.LoadServerConfig()
	bridgeCfg := config.LoadBridgeConfig()
	lockCfg := database.GetLockConfig()

	docs.SwaggerInfo.Host = "localhost:" + serverCfg.Port

	auditLogger := audit.NewAuditLogger()

	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}
	bridgeLock := database.NewBridgeLock(redisClient, lockCfg)

	var wallets services.WalletResolver
	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if db != nil {
		defer db.Close()
		wallets = services.NewWalletDirectory(db)
	}

	transport := bridge.NewFileTransport(bridgeCfg.WorkDir, bridgeCfg.InputPath, bridgeCfg.OutputPath)
	runner := bridge.NewExecRunner(bridgeCfg.BinaryPath, bridgeCfg.WorkDir, bridgeCfg.Timeout)
	runner.Verbose = bridgeCfg.Verbose
	if _, err := os.Stat(runner.BinaryPath); err != nil {
		log.Printf("[BRIDGE] WARNING: calculation engine not found at %s, payroll requests will fail until it is built", runner.BinaryPath)
	}
	orchestrator := bridge.NewOrchestrator(transport, runner)

	settlementCfg := settlement.GetConfig()
	wallet, err := settlement.NewWallet(settlementCfg)
	if err != nil {
		log.Fatalf("Failed to initialize settlement wallet: %v", err)
	}
	engine := settlement.NewEngine(wallet, auditLogger, settlementCfg.Asset)
	log.Printf("[SETTLEMENT] %s wallet %s on %s", settlementCfg.Mode, wallet.Address(), wallet.Network())

	router := handlers.NewRouter(handlers.Services{
		Payroll:    services.NewPayrollService(orchestrator, bridgeLock, lockCfg.Wait, wallets, engine, auditLogger),
		Settlement: services.NewSettlementService(engine, auditLogger),
		Reports:    services.NewISO20022Service(wallet.Address()),
		Receipts:   services.NewReceiptService(),
	}, handlers.RouterConfig{
		JWTSecret:      serverCfg.JWTSecret,
		PublicURL:      serverCfg.PublicURL,
		RequestTimeout: lockCfg.Wait + bridgeCfg.Timeout + 15*time.Second,
	})
	if serverCfg.JWTSecret == "" {
		log.Println("WARNING: jwt.secret_key not set, settlement routes are unauthenticated")
	}

	server := &http.Server{
		Addr:         ":" + serverCfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: lockCfg.Wait + bridgeCfg.Timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s", serverCfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), bridgeCfg.Timeout+5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
