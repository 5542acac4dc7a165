package detector

import (
	"fmt"
	"slices"
	"strings"
)

// Backend names a detector implementation variant.
type Backend string

const (
	BackendSimple    Backend = "simple"
	BackendRemote    Backend = "remote"
	BackendONNX      Backend = "onnx"
	BackendTesseract Backend = "tesseract"
	BackendOff       Backend = "off"
)

// Allowed backends per capability.
var (
	FaceBackends       = []Backend{BackendSimple, BackendRemote, BackendONNX}
	LivenessBackends   = []Backend{BackendSimple, BackendRemote}
	TextBackends       = []Backend{BackendSimple, BackendRemote}
	DocClassBackends   = []Backend{BackendSimple, BackendRemote}
	PortraitBackends   = []Backend{BackendSimple, BackendRemote, BackendOff}
	RecognizerBackends = []Backend{BackendTesseract, BackendRemote}
)

// ParseBackend validates raw against allowed, case-insensitively.
func ParseBackend(raw string, allowed []Backend) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(raw)))
	if slices.Contains(allowed, b) {
		return b, nil
	}
	return "", fmt.Errorf("unknown backend %q (allowed: %v)", raw, allowed)
}
