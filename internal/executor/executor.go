// Package executor runs one-shot invocations of the local coding-agent CLI
// for the chat relay endpoint.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/taskforge-dev/taskforge/internal/config"
)

const (
	defaultCommand = "codex"
	defaultTimeout = 120 * time.Second
)

// Executor invokes the configured agent binary with a free-text instruction
// and captures its combined output.
type Executor struct {
	command string
	args    []string
	timeout time.Duration
}

// New builds an executor from the chat configuration, applying defaults for
// anything unset.
func New(cfg *config.Config) *Executor {
	e := &Executor{
		command: cfg.Chat.Command,
		args:    append([]string(nil), cfg.Chat.Args...),
		timeout: defaultTimeout,
	}
	if e.command == "" {
		e.command = defaultCommand
	}
	if cfg.Chat.TimeoutSeconds > 0 {
		e.timeout = time.Duration(cfg.Chat.TimeoutSeconds) * time.Second
	}
	return e
}

// Execute runs the agent once in workdir with message appended as the final
// argument, returning captured stdout+stderr. An empty workdir falls back to
// the process working directory.
func (e *Executor) Execute(ctx context.Context, workdir, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("empty message")
	}
	if workdir == "" {
		if cwd, err := os.Getwd(); err == nil {
			workdir = cwd
		} else {
			workdir = os.TempDir()
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	args := append(append([]string(nil), e.args...), message)
	cmd := exec.CommandContext(runCtx, e.command, args...)
	cmd.Dir = workdir

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	start := time.Now()
	err := cmd.Run()
	log.WithFields(log.Fields{
		"command":    e.command,
		"workdir":    workdir,
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Debug("agent invocation finished")

	if runCtx.Err() == context.DeadlineExceeded {
		return output.String(), fmt.Errorf("agent timed out after %s", e.timeout)
	}
	if err != nil {
		return output.String(), fmt.Errorf("agent exited with error: %w", err)
	}
	return output.String(), nil
}
