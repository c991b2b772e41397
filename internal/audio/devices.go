package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Device describes an available audio input device.
type Device struct {
	Name    string
	Default bool
}

// ListInputDevices returns every device with input channels reported by
// PortAudio. PortAudio must already be initialized (Manager's New does
// this).
func ListInputDevices() ([]Device, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerate input devices: %w", err)
	}

	defaultDevice, _ := portaudio.DefaultInputDevice()

	result := make([]Device, 0, len(devices))
	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			result = append(result, Device{
				Name:    d.Name,
				Default: d == defaultDevice,
			})
		}
	}
	return result, nil
}

// Devices lists available inputs on behalf of the service layer.
func (m *Manager) Devices() ([]Device, error) {
	return ListInputDevices()
}

// findInputDevice resolves a device name to a PortAudio device. An empty
// name selects the system default input; otherwise the first input device
// whose name matches exactly is returned.
func findInputDevice(name string) (*portaudio.DeviceInfo, error) {
	if name == "" {
		device, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("%w: no default input device: %v", ErrDeviceNotFound, err)
		}
		return device, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerate input devices: %w", err)
	}
	for _, d := range devices {
		if d.Name == name && d.MaxInputChannels > 0 {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrDeviceNotFound, name)
}
