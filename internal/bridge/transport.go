package bridge

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Default file locations, relative to the engine's working directory
const (
	DefaultInputPath  = "data/input.dat"
	DefaultOutputPath = "data/output.rpt"
)

// maxOutputLine bounds a single engine output line. Anything shorter is
// handed to the decoder, which reports its length.
const maxOutputLine = 1 << 20

// FileTransport moves records between the bridge and the engine through two
// files. It assumes a single caller at a time.
type FileTransport struct {
	InputPath  string
	OutputPath string
}

// NewFileTransport resolves the input and output paths against workDir
func NewFileTransport(workDir, inputPath, outputPath string) *FileTransport {
	if inputPath == "" {
		inputPath = DefaultInputPath
	}
	if outputPath == "" {
		outputPath = DefaultOutputPath
	}
	if !filepath.IsAbs(inputPath) {
		inputPath = filepath.Join(workDir, inputPath)
	}
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(workDir, outputPath)
	}
	return &FileTransport{InputPath: inputPath, OutputPath: outputPath}
}

// WriteInput writes one newline-terminated line per record. Any output file
// left by a previous run is removed first so a missing output can be told
// apart from a stale one.
func (t *FileTransport) WriteInput(lines []string) error {
	if err := os.MkdirAll(filepath.Dir(t.InputPath), 0o755); err != nil {
		return fmt.Errorf("create input directory: %w", err)
	}

	if err := os.Remove(t.OutputPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale output %s: %w", t.OutputPath, err)
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(t.InputPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write input file %s: %w", t.InputPath, err)
	}
	return nil
}

// ReadOutput returns every non-blank line of the output file with line
// endings removed. A missing file yields ErrNoOutput.
func (t *FileTransport) ReadOutput() ([]string, error) {
	f, err := os.Open(t.OutputPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", t.OutputPath, ErrNoOutput)
	}
	if err != nil {
		return nil, fmt.Errorf("open output file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxOutputLine)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read output file %s: %w", t.OutputPath, err)
	}
	return lines, nil
}
