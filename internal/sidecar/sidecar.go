// Package sidecar manages the external transcription backend: a child
// process that exchanges newline-delimited JSON requests and responses over
// its standard input and output. Beyond spawn, kill, and a blocking
// line-for-line exchange there is no coordination; the capture engine never
// depends on it.
package sidecar

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// BackendDirEnv overrides backend directory discovery.
const BackendDirEnv = "SECOND_BACKEND_DIR"

var (
	// ErrNotRunning is returned by Send when no backend process is up.
	ErrNotRunning = errors.New("sidecar is not running")

	// ErrAlreadyRunning is returned by Start when a backend is already up.
	ErrAlreadyRunning = errors.New("sidecar is already running")
)

// Manager owns the backend process handle and serializes request/response
// exchanges over its pipes. It is not safe for concurrent use; the service
// layer guards it with its own lock.
type Manager struct {
	log zerolog.Logger

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	exited chan struct{}
}

// New creates a manager with no running process.
func New(log zerolog.Logger) *Manager {
	return &Manager{log: log}
}

// Start spawns `<python> main.py` in backendDir with stdin/stdout piped and
// stderr passed through to ours.
func (m *Manager) Start(python, backendDir string) error {
	if m.IsRunning() {
		return ErrAlreadyRunning
	}

	cmd := exec.Command(python, "main.py")
	cmd.Dir = backendDir
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open sidecar stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("open sidecar stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn sidecar: %w", err)
	}

	exited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	m.cmd = cmd
	m.stdin = stdin
	m.stdout = bufio.NewReader(stdout)
	m.exited = exited

	m.log.Info().Str("python", python).Str("backend_dir", backendDir).Msg("Sidecar started")
	return nil
}

// Send writes one JSON line to the backend and blocks for a single-line
// JSON response.
func (m *Manager) Send(message map[string]any) (map[string]any, error) {
	if m.stdin == nil || m.stdout == nil {
		return nil, fmt.Errorf("%w: stdin not available", ErrNotRunning)
	}

	raw, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("serialize message: %w", err)
	}
	if _, err := m.stdin.Write(append(raw, '\n')); err != nil {
		return nil, fmt.Errorf("write to sidecar stdin: %w", err)
	}

	line, err := m.stdout.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("sidecar closed stdout (possible crash)")
		}
		return nil, fmt.Errorf("read from sidecar stdout: %w", err)
	}

	var response map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &response); err != nil {
		return nil, fmt.Errorf("parse sidecar response: %w", err)
	}
	return response, nil
}

// Health sends a health probe and verifies the backend answers status ok.
func (m *Manager) Health() error {
	response, err := m.Send(map[string]any{"type": "health"})
	if err != nil {
		return err
	}
	if status, _ := response["status"].(string); status != "ok" {
		return fmt.Errorf("health check failed: %v", response)
	}
	return nil
}

// Stop kills the backend process and cleans up handles. Stopping an idle
// manager is a no-op.
func (m *Manager) Stop() error {
	if m.cmd == nil {
		return nil
	}

	// Drop the pipes first so the child is not blocked on I/O.
	if m.stdin != nil {
		_ = m.stdin.Close()
		m.stdin = nil
	}
	m.stdout = nil

	if err := m.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill sidecar: %w", err)
	}
	<-m.exited

	m.cmd = nil
	m.exited = nil
	m.log.Info().Msg("Sidecar stopped")
	return nil
}

// IsRunning reports whether the backend process is believed to be running.
// The check never blocks; if the process has exited since the last check
// the internal state is cleaned up automatically.
func (m *Manager) IsRunning() bool {
	if m.cmd == nil {
		return false
	}
	select {
	case <-m.exited:
		if m.stdin != nil {
			_ = m.stdin.Close()
			m.stdin = nil
		}
		m.stdout = nil
		m.cmd = nil
		m.exited = nil
		return false
	default:
		return true
	}
}

// FindPython locates a usable interpreter for the backend. Search order:
// the backend virtualenv at <backendDir>/.venv/bin/python, then python3 on
// PATH, then python.
func FindPython(backendDir string) (string, error) {
	if backendDir != "" {
		venv := filepath.Join(backendDir, ".venv", "bin", "python")
		if info, err := os.Stat(venv); err == nil && !info.IsDir() {
			return venv, nil
		}
	}
	for _, candidate := range []string{"python3", "python"} {
		if commandExists(candidate) {
			return candidate, nil
		}
	}
	return "", errors.New("could not find a Python interpreter: create a virtualenv in backend/.venv or install Python 3.11+")
}

// FindBackendDir resolves the backend directory: the SECOND_BACKEND_DIR
// environment variable, then backend/ relative to the executable, then
// backend/ under the working directory.
func FindBackendDir() (string, error) {
	if dir := os.Getenv(BackendDirEnv); dir != "" {
		if isDir(dir) {
			return dir, nil
		}
		return "", fmt.Errorf("%s is set to %q but that directory does not exist", BackendDirEnv, dir)
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		for _, relative := range []string{"../backend", "../../../backend"} {
			candidate := filepath.Join(exeDir, relative)
			if isDir(candidate) {
				return filepath.Abs(candidate)
			}
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, "backend")
		if isDir(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("could not find the backend directory: set %s or ensure backend/ exists relative to the project root", BackendDirEnv)
}

func commandExists(name string) bool {
	return exec.Command(name, "--version").Run() == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
