package converter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/feichai0017/notebook-publisher/pkg/logger"
)

// executor abstracts command execution for testing.
type executor interface {
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

type osExecutor struct{}

func (osExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// NBConvert runs `jupyter nbconvert --to markdown` on a notebook.
type NBConvert struct {
	command string
	timeout time.Duration
	exec    executor
	logger  logger.Logger
}

// NewNBConvert builds a converter around command (usually "jupyter"). A zero
// timeout lets the process run until it exits.
func NewNBConvert(command string, timeout time.Duration, log logger.Logger) *NBConvert {
	if command == "" {
		command = "jupyter"
	}
	return &NBConvert{
		command: command,
		timeout: timeout,
		exec:    osExecutor{},
		logger:  log,
	}
}

func (c *NBConvert) CanConvert(ext string) bool {
	return strings.EqualFold(ext, ".ipynb")
}

func (c *NBConvert) args(sourcePath, outputDir, outputName string) []string {
	return []string{
		"nbconvert",
		"--to", "markdown",
		"--output-dir", outputDir,
		"--output", outputName,
		sourcePath,
	}
}

func (c *NBConvert) Convert(ctx context.Context, sourcePath, outputDir, outputName string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := c.args(sourcePath, outputDir, outputName)
	c.logger.Info("Running notebook converter",
		logger.String("command", c.command),
		logger.Strings("args", args),
	)

	var stdout, stderr bytes.Buffer
	if err := c.exec.Run(ctx, c.command, args, &stdout, &stderr); err != nil {
		c.logger.Error("Notebook converter failed",
			logger.String("source", sourcePath),
			logger.String("stderr", stderr.String()),
			logger.Error(err),
		)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s nbconvert failed: %w: %s", c.command, err, msg)
		}
		return "", fmt.Errorf("%s nbconvert failed: %w", c.command, err)
	}

	mdPath := filepath.Join(outputDir, outputName+".md")
	data, err := os.ReadFile(mdPath)
	if err != nil {
		return "", fmt.Errorf("failed to read converted markdown: %w", err)
	}
	return string(data), nil
}
