// Package bridge drives one payroll calculation through the external engine:
// records are encoded, handed over in a file, the engine is run, and its
// output file is decoded back into structured results.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ledgerdemain/backend/internal/fixedwidth"
	"github.com/ledgerdemain/backend/internal/models"
)

// Transport is the file handover between the bridge and the engine
type Transport interface {
	WriteInput(lines []string) error
	ReadOutput() ([]string, error)
}

// Orchestrator runs the five bridge stages in order. Callers must serialize
// Process calls that share a transport location.
type Orchestrator struct {
	transport Transport
	runner    Runner
}

func NewOrchestrator(transport Transport, runner Runner) *Orchestrator {
	return &Orchestrator{
		transport: transport,
		runner:    runner,
	}
}

// Process encodes the request, runs the engine and decodes its output. The
// first failing stage ends the call; nothing is retried. Once the engine is
// started it runs to completion or timeout regardless of ctx.
func (o *Orchestrator) Process(ctx context.Context, req *models.PayrollRequest) (*models.PayrollResponse, error) {
	start := time.Now()
	log.Printf("[BRIDGE] Processing payroll for %d employees", len(req.Employees))

	// Stage 1: encode every record, all or nothing
	lines := make([]string, 0, len(req.Employees))
	seen := make(map[string]int, len(req.Employees))
	for i, emp := range req.Employees {
		enc, err := fixedwidth.EncodeInput(emp)
		if err != nil {
			return nil, &Error{Kind: KindFormat, Stage: StageEncode, Line: i + 1, Err: err}
		}
		// results come back keyed by the id as written
		id := enc.Line[:fixedwidth.InputLayout.Fields[0].Width]
		if first, ok := seen[id]; ok {
			return nil, &Error{Kind: KindFormat, Stage: StageEncode, Line: i + 1,
				Err: fmt.Errorf("%w: %q (first on line %d)", ErrDuplicateID, emp.EmployeeID, first)}
		}
		seen[id] = i + 1
		if enc.Lossy() {
			log.Printf("[BRIDGE] WARNING: record %d (%s) truncated fields %v", i+1, emp.EmployeeID, enc.Truncated)
		}
		lines = append(lines, enc.Line)
	}

	// Stage 2: hand the records to the engine
	if err := o.transport.WriteInput(lines); err != nil {
		return nil, &Error{Kind: KindIO, Stage: StageWrite, Err: err}
	}

	// Stage 3: run the engine
	if _, err := o.runner.Run(context.WithoutCancel(ctx)); err != nil {
		var be *Error
		if errors.As(err, &be) {
			return nil, be
		}
		return nil, &Error{Kind: KindProcessFailed, Stage: StageRun, Err: err}
	}

	// Stage 4: collect the engine's output
	output, err := o.transport.ReadOutput()
	if err != nil {
		return nil, &Error{Kind: KindIO, Stage: StageRead, Err: err}
	}

	// Stage 5: decode results and the trailer
	resp, err := decodeOutput(output)
	if err != nil {
		return nil, err
	}

	attachWallets(resp.Results, req.Employees)

	log.Printf("[BRIDGE] Payroll processed in %.3fs: %d results, %d processed, %d errors",
		time.Since(start).Seconds(), len(resp.Results), resp.Summary.Processed, resp.Summary.Errors)
	return resp, nil
}

func decodeOutput(lines []string) (*models.PayrollResponse, error) {
	resp := &models.PayrollResponse{Results: make([]models.EmployeeOutput, 0, len(lines))}
	summaryLine := 0

	for i, line := range lines {
		if fixedwidth.IsSummaryLine(line) {
			if summaryLine > 0 {
				return nil, &Error{Kind: KindFormat, Stage: StageDecode, Line: i + 1,
					Err: fmt.Errorf("%w (first on line %d)", ErrDuplicateSum, summaryLine)}
			}
			summary, err := fixedwidth.DecodeSummaryLine(line)
			if err != nil {
				return nil, &Error{Kind: KindFormat, Stage: StageDecode, Line: i + 1, Err: err}
			}
			resp.Summary = summary
			summaryLine = i + 1
			continue
		}

		rec, err := fixedwidth.DecodeOutputLine(line)
		if err != nil {
			return nil, &Error{Kind: KindFormat, Stage: StageDecode, Line: i + 1, Err: err}
		}
		resp.Results = append(resp.Results, rec)
	}

	if summaryLine == 0 {
		return nil, &Error{Kind: KindFormat, Stage: StageDecode, Err: ErrMissingSummary}
	}
	return resp, nil
}

// attachWallets copies each input's destination address onto the result with
// the same employee id
func attachWallets(results []models.EmployeeOutput, inputs []models.EmployeeInput) {
	wallets := make(map[string]string, len(inputs))
	for _, in := range inputs {
		if in.WalletAddress == "" {
			continue
		}
		wallets[fixedwidth.WireText(in.EmployeeID, fixedwidth.InputLayout.Fields[0].Width)] = in.WalletAddress
	}

	for i := range results {
		if addr, ok := wallets[results[i].EmployeeID]; ok {
			results[i].WalletAddress = addr
		}
	}
}
