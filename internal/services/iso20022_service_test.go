package services

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ledgerdemain/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func sampleBatch() *models.BatchSettlementSummary {
	ts := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	return &models.BatchSettlementSummary{
		BatchID:        "7b1c9a52-3d8e-4f6a-9c2b-1e5d7f8a9b0c",
		Network:        "base-sepolia",
		Asset:          "usdc",
		TotalProcessed: 2,
		TotalSucceeded: 1,
		TotalFailed:    1,
		Results: []models.SettlementOutcome{
			{
				EmployeeID:      "EMP0001234",
				Amount:          dec("816.00"),
				ToAddress:       walletA,
				Status:          models.SettlementSuccess,
				TransactionHash: "0x" + strings.Repeat("ab", 32),
				Timestamp:       ts,
			},
			{
				EmployeeID: "EMP0005678",
				Amount:     dec("700.00"),
				ToAddress:  "invalid",
				Status:     models.SettlementFailed,
				Error:      "invalid wallet address format",
				ErrorType:  "ValidationError",
				Timestamp:  ts,
			},
		},
	}
}

func TestISO20022Service_BuildReport(t *testing.T) {
	service := NewISO20022Service(source)

	t.Run("status report covers every outcome", func(t *testing.T) {
		report, err := service.BuildReport(sampleBatch())
		assert.NoError(t, err)

		assert.Equal(t, "pacs.002.001.08", report.MessageType)
		assert.True(t, strings.HasPrefix(report.XML, "<?xml"))
		assert.Contains(t, report.XML, "ACSC")
		assert.Contains(t, report.XML, "RJCT")
		assert.Contains(t, report.XML, "EMP0001234")
		assert.Contains(t, report.XML, "EMP0005678")
	})

	t.Run("credit transfer per success", func(t *testing.T) {
		report, err := service.BuildReport(sampleBatch())
		assert.NoError(t, err)

		assert.Len(t, report.CreditTransfers, 1)
		doc := report.CreditTransfers[0]
		assert.Contains(t, doc, "816")
		assert.Contains(t, doc, walletA)
		assert.Contains(t, doc, source)
		assert.Contains(t, doc, "USD")
		assert.NotContains(t, doc, "invalid")
	})

	t.Run("identifiers fit Max35Text", func(t *testing.T) {
		doc := service.CreatePacs002(sampleBatch())
		for _, tx := range doc.TxInfAndSts {
			assert.LessOrEqual(t, len(string(*tx.OrgnlInstrId)), 35)
		}
		assert.Equal(t, 35, len(string(*doc.TxInfAndSts[0].OrgnlTxId)))
		assert.Nil(t, doc.TxInfAndSts[1].OrgnlTxId)
		assert.LessOrEqual(t, len(string(doc.GrpHdr.MsgId)), 35)
	})
}

func TestISO20022Service_GenerateReport(t *testing.T) {
	service := NewISO20022Service(source)

	t.Run("successful report", func(t *testing.T) {
		body, _ := json.Marshal(sampleBatch())
		w := post(service.GenerateReport, "/api/settlement/report", string(body))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp SettlementReport
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "generated", resp.Status)
		assert.NotEmpty(t, resp.XML)
		assert.Len(t, resp.CreditTransfers, 1)
	})

	t.Run("invalid request body", func(t *testing.T) {
		w := post(service.GenerateReport, "/api/settlement/report", "invalid")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
