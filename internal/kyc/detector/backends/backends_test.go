package backends

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verigate/internal/kyc/detector"
	"verigate/internal/kyc/detector/remote"
	"verigate/internal/kyc/detector/simple"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildDefaults(t *testing.T) {
	set, closeFn, err := Build(Config{}, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	assert.IsType(t, &simple.FaceMatcher{}, set.Face)
	assert.IsType(t, &simple.LivenessDetector{}, set.Liveness)
	assert.IsType(t, &simple.TextExtractor{}, set.Text)
	assert.IsType(t, &simple.DocumentClassifier{}, set.DocClass)
	assert.IsType(t, &simple.PortraitExtractor{}, set.Portrait)
}

func TestBuildRemoteSharesClient(t *testing.T) {
	cfg := Config{
		Face:       detector.BackendRemote,
		Liveness:   detector.BackendRemote,
		Text:       detector.BackendRemote,
		DocClass:   detector.BackendRemote,
		Portrait:   detector.BackendRemote,
		Recognizer: detector.BackendRemote,
		RemoteURL:  "http://detector.local",
		Timeout:    time.Second,
	}
	set, _, err := Build(cfg, discardLogger())
	require.NoError(t, err)

	client, ok := set.Face.(*remote.Client)
	require.True(t, ok)
	assert.Same(t, client, set.Liveness)
	assert.Same(t, client, set.Portrait)
}

func TestBuildErrors(t *testing.T) {
	t.Run("remote without url", func(t *testing.T) {
		_, _, err := Build(Config{Face: detector.BackendRemote}, discardLogger())
		assert.ErrorContains(t, err, "no detector URL")
	})

	t.Run("unsupported backend", func(t *testing.T) {
		_, _, err := Build(Config{Liveness: detector.BackendONNX}, discardLogger())
		assert.ErrorContains(t, err, "unsupported liveness backend")
	})

	t.Run("onnx without model", func(t *testing.T) {
		_, _, err := Build(Config{Face: detector.BackendONNX}, discardLogger())
		assert.ErrorContains(t, err, "arcface")
	})
}

func TestPortraitOff(t *testing.T) {
	set, _, err := Build(Config{Portrait: detector.BackendOff}, discardLogger())
	require.NoError(t, err)
	assert.Nil(t, set.Portrait)
}
