package audio

import "errors"

var (
	// ErrAlreadyRecording is returned by Start while a session is in progress.
	ErrAlreadyRecording = errors.New("a recording is already in progress")

	// ErrNotRecording is returned by Stop when no session is in progress.
	ErrNotRecording = errors.New("no recording in progress")

	// ErrDeviceNotFound is returned when no input device matches the
	// requested name, or no default input device is available.
	ErrDeviceNotFound = errors.New("input device not found")

	// ErrPathEncoding is returned when the derived recording path is not
	// valid UTF-8.
	ErrPathEncoding = errors.New("recording path is not valid UTF-8")

	// ErrCaptureFailed wraps any error the capture thread exits with,
	// including stream build failures, WAV write errors, and panics.
	ErrCaptureFailed = errors.New("capture failed")
)
