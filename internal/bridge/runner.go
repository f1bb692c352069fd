package bridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// DefaultTimeout bounds one engine run
const DefaultTimeout = 30 * time.Second

// RunResult is what the engine left behind after one run
type RunResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Runner invokes the calculation engine once. A non-nil error is always a
// *Error with one of the process kinds.
type Runner interface {
	Run(ctx context.Context) (*RunResult, error)
}

// ExecRunner runs the engine binary as a child process
type ExecRunner struct {
	BinaryPath string
	WorkDir    string
	Timeout    time.Duration
	Verbose    bool
}

// DefaultBinaryPath returns the engine location under workDir for the
// current platform
func DefaultBinaryPath(workDir string) string {
	name := "payroll"
	if runtime.GOOS == "windows" {
		name = "payroll.exe"
	}
	return filepath.Join(workDir, "cobol", "bin", name)
}

// NewExecRunner creates a runner for the binary at binaryPath. An empty path
// selects DefaultBinaryPath, a zero timeout selects DefaultTimeout.
func NewExecRunner(binaryPath, workDir string, timeout time.Duration) *ExecRunner {
	if binaryPath == "" {
		binaryPath = DefaultBinaryPath(workDir)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ExecRunner{BinaryPath: binaryPath, WorkDir: workDir, Timeout: timeout}
}

// Run starts the engine with no arguments and waits for it. The binary is
// checked before spawning; if it is absent no process is started.
func (r *ExecRunner) Run(ctx context.Context) (*RunResult, error) {
	if _, err := os.Stat(r.BinaryPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("[BRIDGE] Engine binary not found at %s", r.BinaryPath)
			return nil, &Error{Kind: KindProcessNotFound, Stage: StageRun, Err: fmt.Errorf("engine binary not found at %s", r.BinaryPath)}
		}
		return nil, &Error{Kind: KindIO, Stage: StageRun, Err: fmt.Errorf("stat engine binary: %w", err)}
	}

	runCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, r.BinaryPath)
	cmd.Dir = r.WorkDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Grandchildren holding the pipes open must not outlive the timeout
	cmd.WaitDelay = time.Second

	log.Printf("[BRIDGE] Executing engine binary: %s", r.BinaryPath)
	start := time.Now()
	err := cmd.Run()

	result := &RunResult{
		ExitCode: -1,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	log.Printf("[BRIDGE] Engine finished in %.3fs with exit code %d", result.Duration.Seconds(), result.ExitCode)
	if r.Verbose && result.Stdout != "" {
		log.Printf("[BRIDGE] Engine stdout: %s", result.Stdout)
	}
	if result.Stderr != "" {
		log.Printf("[BRIDGE] WARNING: engine stderr: %s", result.Stderr)
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return result, &Error{Kind: KindProcessTimeout, Stage: StageRun, Result: result,
			Err: fmt.Errorf("engine timed out after %s", r.Timeout)}
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return result, &Error{Kind: KindProcessFailed, Stage: StageRun, Result: result,
				Err: fmt.Errorf("engine exited with status %d: %s", result.ExitCode, result.Stderr)}
		}
		return result, &Error{Kind: KindProcessFailed, Stage: StageRun, Result: result,
			Err: fmt.Errorf("start engine: %w", err)}
	}

	return result, nil
}
