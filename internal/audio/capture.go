package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog"

	"github.com/secondhq/second-capture/internal/wav"
)

// Manager is the externally visible handle to the capture engine. It
// enforces the single-session state machine: at most one recording exists
// system-wide, and only Stop tears one down. The manager is reusable across
// arbitrarily many sessions.
type Manager struct {
	log zerolog.Logger

	mu        sync.Mutex
	recording bool
	filePath  string
	stop      *atomic.Bool
	done      chan error
}

// New creates an idle Manager and initializes PortAudio. Callers must Close
// it to release the audio subsystem.
func New(log zerolog.Logger) (*Manager, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize PortAudio: %w", err)
	}
	return &Manager{log: log}, nil
}

// Close stops any session still in progress and terminates PortAudio.
func (m *Manager) Close() error {
	if m.IsRecording() {
		if _, err := m.Stop(); err != nil {
			m.log.Error().Err(err).Msg("Stop recording during close")
		}
	}
	return portaudio.Terminate()
}

// IsRecording reports whether a session is in progress. It never blocks on
// audio I/O.
func (m *Manager) IsRecording() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recording
}

// Start begins recording from the named device (empty string selects the
// system default input) into a timestamped WAV file under recordingsDir,
// creating the directory if needed, and returns the path of the file being
// written. State flips to recording before the capture goroutine is
// spawned, so a concurrent Start deterministically observes the session and
// fails with ErrAlreadyRecording.
func (m *Manager) Start(deviceName, recordingsDir string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.recording {
		return "", ErrAlreadyRecording
	}

	if err := os.MkdirAll(recordingsDir, 0o755); err != nil {
		return "", fmt.Errorf("create recordings directory: %w", err)
	}

	path := filepath.Join(recordingsDir, fmt.Sprintf("recording_%d.wav", time.Now().Unix()))
	if !utf8.ValidString(path) {
		return "", fmt.Errorf("%w: %q", ErrPathEncoding, path)
	}

	device, err := findInputDevice(deviceName)
	if err != nil {
		return "", err
	}

	stop := new(atomic.Bool)
	done := make(chan error, 1)

	m.recording = true
	m.filePath = path
	m.stop = stop
	m.done = done

	log := m.log.With().Str("path", path).Logger()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("capture thread panicked: %v", r)
			}
		}()
		done <- runCapture(device, path, stop, log)
	}()

	log.Info().Str("device", device.Name).Msg("Recording started")
	return path, nil
}

// Stop signals the capture goroutine, waits for it to exit, and returns the
// path of the recording. By the time Stop returns successfully the WAV file
// is finalized and playable and no background writes remain. Errors the
// session hit mid-recording surface here, wrapped in ErrCaptureFailed.
func (m *Manager) Stop() (string, error) {
	m.mu.Lock()
	if !m.recording {
		m.mu.Unlock()
		return "", ErrNotRecording
	}

	m.stop.Store(true)
	m.recording = false
	path := m.filePath
	done := m.done
	m.filePath = ""
	m.stop = nil
	m.done = nil
	m.mu.Unlock()

	// Join outside the lock so IsRecording and Start stay responsive while
	// the stream tears down.
	if err := <-done; err != nil {
		return "", fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}

	m.log.Info().Str("path", path).Msg("Recording stopped")
	return path, nil
}

// runCapture owns the device stream for one session. It runs on its own
// goroutine; the data callback it installs runs on the audio subsystem's
// real-time thread and must never block, so every shared structure the
// callback touches is either atomic or guarded by a try-lock that skips the
// cycle on contention.
func runCapture(device *portaudio.DeviceInfo, path string, stop *atomic.Bool, log zerolog.Logger) error {
	format := negotiateFormat(device)
	if format.needsConversion {
		log.Debug().
			Int("device_rate", format.sampleRate).
			Int("device_channels", format.channels).
			Msg("Device format requires conversion")
	}

	writer, err := wav.Create(path, SampleRate, NumChannels, BitsPerSample)
	if err != nil {
		return fmt.Errorf("create WAV file: %w", err)
	}

	var writerMu sync.Mutex
	var cell errorCell

	callback := captureCallback(func(in []float32) {
		if stop.Load() {
			return
		}
		// Contention means the runner is finalizing; drop this buffer
		// rather than stall the audio thread.
		if !writerMu.TryLock() {
			return
		}
		defer writerMu.Unlock()

		var samples []int16
		if format.needsConversion {
			samples = downmixResample(in, format.sampleRate, format.channels)
		} else {
			samples = pcm16Buffer(in)
		}
		if err := writer.WriteSamples(samples); err != nil {
			cell.Set(fmt.Errorf("WAV write error: %w", err))
		}
	})

	stream, err := portaudio.OpenStream(format.params, callback)
	if err != nil {
		finalizeWriter(writer, &writerMu, log)
		return fmt.Errorf("build input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		finalizeWriter(writer, &writerMu, log)
		return fmt.Errorf("start input stream: %w", err)
	}

	for !stop.Load() {
		time.Sleep(stopPollInterval)
	}

	// Tear the stream down before finalizing so no further callbacks run.
	if err := stream.Stop(); err != nil {
		log.Warn().Err(err).Msg("Stop input stream")
	}
	if err := stream.Close(); err != nil {
		log.Warn().Err(err).Msg("Close input stream")
	}

	writerMu.Lock()
	finalizeErr := writer.Close()
	writerMu.Unlock()

	if err := cell.Err(); err != nil {
		return err
	}
	if finalizeErr != nil {
		return fmt.Errorf("finalize WAV file: %w", finalizeErr)
	}
	return nil
}

// finalizeWriter closes the writer on error paths so the header is valid
// even when the session never produced samples.
func finalizeWriter(w *wav.Writer, mu *sync.Mutex, log zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if err := w.Close(); err != nil {
		log.Warn().Err(err).Msg("Finalize WAV file")
	}
}
