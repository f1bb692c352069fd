package services

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/ledgerdemain/backend/internal/audit"
	"github.com/ledgerdemain/backend/internal/models"
	"github.com/ledgerdemain/backend/internal/settlement"
)

// BalanceResponse describes the source wallet
type BalanceResponse struct {
	Address string `json:"address"`
	Network string `json:"network"`
	Asset   string `json:"asset"`
	Balance string `json:"balance"`
}

type SettlementService struct {
	engine *settlement.Engine
	audit  *audit.AuditLogger
}

func NewSettlementService(engine *settlement.Engine, auditLogger *audit.AuditLogger) *SettlementService {
	if auditLogger == nil {
		auditLogger = audit.NewAuditLogger()
	}
	return &SettlementService{engine: engine, audit: auditLogger}
}

// SettleBatch pays out a payroll result computed earlier
// @Summary Settle payroll results
// @Description Transfer net pay for every OK record of a payroll response
// @Tags settlement
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.PayrollResponse true "Payroll results"
// @Success 200 {object} models.BatchSettlementSummary
// @Failure 400 {object} ErrorResponse
// @Router /settlement/batch [post]
func (s *SettlementService) SettleBatch(w http.ResponseWriter, r *http.Request) {
	var req models.PayrollResponse
	if err := decodeJSON(w, r, &req); err != nil {
		SendErrorResponse(w, "Invalid request body", ErrTypeRequest, http.StatusBadRequest, err)
		return
	}

	// a batch that has started is finished even if the client goes away
	summary := s.engine.Settle(context.WithoutCancel(r.Context()), settlement.InstructionsFrom(&req))
	sendJSON(w, http.StatusOK, summary)
}

// GetBalance reports the source wallet's balance
// @Summary Wallet balance
// @Tags settlement
// @Produce json
// @Success 200 {object} BalanceResponse
// @Failure 502 {object} ErrorResponse
// @Router /settlement/balance [get]
func (s *SettlementService) GetBalance(w http.ResponseWriter, r *http.Request) {
	wallet := s.engine.Wallet()
	balance, err := wallet.GetBalance(r.Context(), s.engine.Asset())
	if err != nil {
		log.Printf("[SETTLEMENT] ERROR: balance query failed: %v", err)
		SendErrorResponse(w, "Failed to query wallet balance: "+err.Error(), ErrTypeSettlement, http.StatusBadGateway, nil)
		return
	}

	sendJSON(w, http.StatusOK, BalanceResponse{
		Address: wallet.Address(),
		Network: wallet.Network(),
		Asset:   strings.ToUpper(s.engine.Asset()),
		Balance: balance.StringFixed(2),
	})
}

// RequestFaucet funds the source wallet on testnet
// @Summary Request testnet funds
// @Tags settlement
// @Produce json
// @Security BearerAuth
// @Success 200 {object} BalanceResponse
// @Failure 409 {object} ErrorResponse
// @Router /settlement/faucet [post]
func (s *SettlementService) RequestFaucet(w http.ResponseWriter, r *http.Request) {
	wallet := s.engine.Wallet()
	funder, ok := wallet.(settlement.Funder)
	if !ok {
		SendErrorResponse(w, "Wallet does not support faucet requests", ErrTypeSettlement, http.StatusNotImplemented, nil)
		return
	}

	if err := funder.RequestFaucet(r.Context(), s.engine.Asset()); err != nil {
		s.audit.LogOperation(audit.EventFaucet, "FAILED", err.Error())
		if errors.Is(err, settlement.ErrFaucetUnavailable) {
			SendErrorResponse(w, err.Error(), ErrTypeSettlement, http.StatusConflict, nil)
			return
		}
		SendErrorResponse(w, "Faucet request failed: "+err.Error(), ErrTypeSettlement, http.StatusBadGateway, nil)
		return
	}
	s.audit.LogOperation(audit.EventFaucet, "SUCCESS", wallet.Address())

	s.GetBalance(w, r)
}
