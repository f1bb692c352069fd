package services

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerdemain/backend/internal/models"
	"github.com/moov-io/iso20022/pkg/common"
	"github.com/moov-io/iso20022/pkg/pacs_v08"
)

const (
	// reportCurrency is the fiat currency the settlement asset is pegged to
	reportCurrency = "USD"

	statusSettled  = "ACSC"
	statusRejected = "RJCT"
)

// SettlementReport is the ISO 20022 rendering of one batch
type SettlementReport struct {
	Status          string   `json:"status"`
	MessageType     string   `json:"messageType"`
	XML             string   `json:"xml"`
	CreditTransfers []string `json:"creditTransfers"`
}

type ISO20022Service struct {
	debtorAddress string
	now           func() time.Time
}

// NewISO20022Service reports transfers as sent from debtorAddress
func NewISO20022Service(debtorAddress string) *ISO20022Service {
	return &ISO20022Service{
		debtorAddress: debtorAddress,
		now:           time.Now,
	}
}

// GenerateReport renders a settlement batch as ISO 20022 messages
// @Summary Settlement report
// @Description Render a batch settlement summary as a pacs.002 status report plus one pacs.008 per successful transfer
// @Tags settlement
// @Accept json
// @Produce json
// @Param summary body models.BatchSettlementSummary true "Batch settlement summary"
// @Success 200 {object} SettlementReport
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /settlement/report [post]
func (iso *ISO20022Service) GenerateReport(w http.ResponseWriter, r *http.Request) {
	var summary models.BatchSettlementSummary
	if err := decodeJSON(w, r, &summary); err != nil {
		SendErrorResponse(w, "Invalid request body", ErrTypeRequest, http.StatusBadRequest, err)
		return
	}

	report, err := iso.BuildReport(&summary)
	if err != nil {
		SendErrorResponse(w, err.Error(), ErrTypeUnexpected, http.StatusInternalServerError, nil)
		return
	}
	sendJSON(w, http.StatusOK, report)
}

// BuildReport renders the status report and the credit transfers
func (iso *ISO20022Service) BuildReport(summary *models.BatchSettlementSummary) (*SettlementReport, error) {
	statusXML, err := iso.ConvertToXML(iso.CreatePacs002(summary))
	if err != nil {
		return nil, err
	}

	report := &SettlementReport{
		Status:          "generated",
		MessageType:     "pacs.002.001.08",
		XML:             statusXML,
		CreditTransfers: []string{},
	}
	for i, o := range summary.Results {
		if !o.Succeeded() {
			continue
		}
		transferXML, err := iso.ConvertToXML(iso.CreatePacs008(summary, i))
		if err != nil {
			return nil, err
		}
		report.CreditTransfers = append(report.CreditTransfers, transferXML)
	}
	return report, nil
}

// CreatePacs002 creates a payment status report with one entry per outcome
func (iso *ISO20022Service) CreatePacs002(summary *models.BatchSettlementSummary) *pacs_v08.FIToFIPaymentStatusReportV08 {
	doc := &pacs_v08.FIToFIPaymentStatusReportV08{
		GrpHdr: pacs_v08.GroupHeader53{
			MsgId:   common.Max35Text(messageID()),
			CreDtTm: common.ISODateTime(iso.now()),
		},
	}

	for i, o := range summary.Results {
		status := statusSettled
		if !o.Succeeded() {
			status = statusRejected
		}
		tx := pacs_v08.PaymentTransaction80{
			OrgnlInstrId:    max35(instructionID(summary.BatchID, i)),
			OrgnlEndToEndId: max35(o.EmployeeID),
			TxSts:           &[]pacs_v08.ExternalPaymentTransactionStatus1Code{pacs_v08.ExternalPaymentTransactionStatus1Code(status)}[0],
		}
		if o.TransactionHash != "" {
			tx.OrgnlTxId = max35(o.TransactionHash)
		}
		doc.TxInfAndSts = append(doc.TxInfAndSts, tx)
	}
	return doc
}

// CreatePacs008 creates the credit transfer for the i-th outcome
func (iso *ISO20022Service) CreatePacs008(summary *models.BatchSettlementSummary, i int) *pacs_v08.FIToFICustomerCreditTransferV08 {
	o := summary.Results[i]
	settlementDate := o.Timestamp
	if settlementDate.IsZero() {
		settlementDate = iso.now()
	}
	amount, _ := o.Amount.Float64()
	network := summary.Network

	return &pacs_v08.FIToFICustomerCreditTransferV08{
		GrpHdr: pacs_v08.GroupHeader93{
			MsgId:   common.Max35Text(messageID()),
			CreDtTm: common.ISODateTime(iso.now()),
			NbOfTxs: "1",
			TtlIntrBkSttlmAmt: &pacs_v08.ActiveCurrencyAndAmount{
				Ccy:   common.ActiveCurrencyCode(reportCurrency),
				Value: amount,
			},
			IntrBkSttlmDt: (*common.ISODate)(&settlementDate),
			SttlmInf: pacs_v08.SettlementInstruction7{
				SttlmMtd: "CLRG",
			},
		},
		CdtTrfTxInf: []pacs_v08.CreditTransferTransaction39{
			{
				PmtId: pacs_v08.PaymentIdentification7{
					InstrId:    max35(instructionID(summary.BatchID, i)),
					EndToEndId: common.Max35Text(truncate35(o.EmployeeID)),
					TxId:       max35(o.TransactionHash),
				},
				IntrBkSttlmAmt: pacs_v08.ActiveCurrencyAndAmount{
					Ccy:   common.ActiveCurrencyCode(reportCurrency),
					Value: amount,
				},
				IntrBkSttlmDt: (*common.ISODate)(&settlementDate),
				ChrgBr:        "SLEV",
				DbtrAgt: pacs_v08.BranchAndFinancialInstitutionIdentification6{
					FinInstnId: pacs_v08.FinancialInstitutionIdentification18{
						ClrSysMmbId: &pacs_v08.ClearingSystemMemberIdentification2{
							MmbId: common.Max35Text(network),
						},
					},
				},
				Dbtr: pacs_v08.PartyIdentification135{
					Nm: &[]common.Max140Text{common.Max140Text(iso.debtorAddress)}[0],
				},
				CdtrAgt: pacs_v08.BranchAndFinancialInstitutionIdentification6{
					FinInstnId: pacs_v08.FinancialInstitutionIdentification18{
						ClrSysMmbId: &pacs_v08.ClearingSystemMemberIdentification2{
							MmbId: common.Max35Text(network),
						},
					},
				},
				Cdtr: pacs_v08.PartyIdentification135{
					Nm: &[]common.Max140Text{common.Max140Text(o.ToAddress)}[0],
				},
			},
		},
	}
}

// ConvertToXML converts ISO20022 document to XML string
func (iso *ISO20022Service) ConvertToXML(doc any) (string, error) {
	xmlData, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal XML: %w", err)
	}
	return xml.Header + string(xmlData), nil
}

func messageID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func instructionID(batchID string, i int) string {
	return fmt.Sprintf("%.24s-%d", strings.ReplaceAll(batchID, "-", ""), i+1)
}

func truncate35(s string) string {
	if len(s) > 35 {
		return s[:35]
	}
	return s
}

func max35(s string) *common.Max35Text {
	v := common.Max35Text(truncate35(s))
	return &v
}
