// Package app wires the capture engine and the sidecar backend behind the
// operations the CLI exposes.
package app

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/secondhq/second-capture/internal/audio"
	"github.com/secondhq/second-capture/internal/config"
	"github.com/secondhq/second-capture/internal/sidecar"
)

// Recorder is the capture engine surface the service depends on.
type Recorder interface {
	Start(deviceName, recordingsDir string) (string, error)
	Stop() (string, error)
	IsRecording() bool
	Devices() ([]audio.Device, error)
}

// Backend is the sidecar process surface the service depends on.
type Backend interface {
	Start(python, backendDir string) error
	Send(message map[string]any) (map[string]any, error)
	Health() error
	Stop() error
	IsRunning() bool
}

type Config struct {
	Recorder Recorder
	Sidecar  Backend
	Config   *config.Config
	Logger   zerolog.Logger
}

type Service struct {
	capture Recorder
	cfg     *config.Config
	log     zerolog.Logger

	mu      sync.Mutex
	backend Backend
}

func New(cfg Config) *Service {
	return &Service{
		capture: cfg.Recorder,
		backend: cfg.Sidecar,
		cfg:     cfg.Config,
		log:     cfg.Logger,
	}
}

// StartRecording begins a capture session. An empty device name falls back
// to the configured device, which in turn may be empty and select the
// system default input.
func (s *Service) StartRecording(deviceName string) (string, error) {
	if deviceName == "" {
		deviceName = s.cfg.Device
	}
	return s.capture.Start(deviceName, s.cfg.RecordingsDir)
}

// StopRecording ends the current session and returns the finalized path.
func (s *Service) StopRecording() (string, error) {
	return s.capture.Stop()
}

func (s *Service) IsRecording() bool {
	return s.capture.IsRecording()
}

// Devices lists available audio inputs.
func (s *Service) Devices() ([]audio.Device, error) {
	return s.capture.Devices()
}

// StartSidecar resolves the interpreter and backend directory (config
// values win over discovery), spawns the backend, and verifies it responds
// to a health probe. A backend that spawns but fails the probe is stopped
// again.
func (s *Service) StartSidecar() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	backendDir := s.cfg.BackendDir
	if backendDir == "" {
		dir, err := sidecar.FindBackendDir()
		if err != nil {
			return err
		}
		backendDir = dir
	}

	python := s.cfg.SidecarPython
	if python == "" {
		p, err := sidecar.FindPython(backendDir)
		if err != nil {
			return err
		}
		python = p
	}

	if err := s.backend.Start(python, backendDir); err != nil {
		return err
	}
	if err := s.backend.Health(); err != nil {
		if stopErr := s.backend.Stop(); stopErr != nil {
			s.log.Error().Err(stopErr).Msg("Stop sidecar after failed health check")
		}
		return fmt.Errorf("sidecar health check: %w", err)
	}
	return nil
}

// SendToSidecar forwards one JSON message and returns the backend's reply.
func (s *Service) SendToSidecar(message map[string]any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Send(message)
}

func (s *Service) SidecarRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.IsRunning()
}

func (s *Service) StopSidecar() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Stop()
}

// Shutdown stops an in-progress recording and the sidecar. The last error
// encountered is returned; both teardowns always run.
func (s *Service) Shutdown() error {
	var last error

	if s.capture != nil && s.capture.IsRecording() {
		if _, err := s.capture.Stop(); err != nil {
			s.log.Error().Err(err).Msg("Stop recording during shutdown")
			last = err
		}
	}
	if err := s.StopSidecar(); err != nil {
		s.log.Error().Err(err).Msg("Stop sidecar during shutdown")
		last = err
	}
	return last
}
