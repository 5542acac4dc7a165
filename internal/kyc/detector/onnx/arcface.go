// Package onnx runs an ArcFace-style embedding model through onnxruntime and
// scores face pairs by cosine similarity.
package onnx

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	ort "github.com/yalue/onnxruntime_go"

	"verigate/internal/kyc/detector"
	"verigate/internal/kyc/detector/imaging"
)

const (
	inputSide        = 112
	defaultInputName = "input.1"
	defaultOutName   = "683"
	defaultEmbedDim  = 512
	pixelMean        = 127.5
	pixelScale       = 128.0
)

// Config locates the model and its tensors.
type Config struct {
	ModelPath   string
	LibraryPath string
	InputName   string
	OutputName  string
	EmbedDim    int
}

func (c *Config) applyDefaults() {
	if c.InputName == "" {
		c.InputName = defaultInputName
	}
	if c.OutputName == "" {
		c.OutputName = defaultOutName
	}
	if c.EmbedDim <= 0 {
		c.EmbedDim = defaultEmbedDim
	}
}

// FaceMatcher holds one session with preallocated tensors. It is not safe for
// concurrent use; wrap it with detector.ExclusiveFace.
type FaceMatcher struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	model   string
}

// Load initializes onnxruntime (once per process) and opens the model.
func Load(cfg Config) (*FaceMatcher, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("arcface model path is empty")
	}
	cfg.applyDefaults()
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("model file missing at %s: %w", cfg.ModelPath, err)
	}

	libPath := resolveSharedLibraryPath(cfg.LibraryPath, filepath.Dir(cfg.ModelPath))
	if libPath == "" {
		return nil, fmt.Errorf("onnxruntime shared library not found; set ONNXRUNTIME_SHARED_LIBRARY_PATH or install the runtime")
	}
	if !ort.IsInitialized() {
		ort.SetSharedLibraryPath(libPath)
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, inputSide, inputSide))
	if err != nil {
		return nil, fmt.Errorf("allocate input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(cfg.EmbedDim)))
	if err != nil {
		_ = input.Destroy()
		return nil, fmt.Errorf("allocate output tensor: %w", err)
	}
	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{cfg.InputName},
		[]string{cfg.OutputName},
		[]ort.Value{input},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		_ = input.Destroy()
		_ = output.Destroy()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &FaceMatcher{
		session: session,
		input:   input,
		output:  output,
		model:   filepath.Base(cfg.ModelPath),
	}, nil
}

func (m *FaceMatcher) Match(ctx context.Context, selfie, reference []byte) (detector.Result, error) {
	if m == nil || m.session == nil {
		return detector.Result{}, errors.New("arcface model not initialized")
	}
	a, err := m.embed(ctx, selfie)
	if err != nil {
		return detector.Result{}, err
	}
	b, err := m.embed(ctx, reference)
	if err != nil {
		return detector.Result{}, err
	}
	cos := Cosine(a, b)
	return detector.Result{
		Score: ScoreFromCosine(cos),
		Details: map[string]any{
			"method": "arcface",
			"model":  m.model,
			"cosine": cos,
		},
	}, nil
}

// Close releases the session and tensors.
func (m *FaceMatcher) Close() error {
	if m == nil || m.session == nil {
		return nil
	}
	return errors.Join(m.session.Destroy(), m.input.Destroy(), m.output.Destroy())
}

func (m *FaceMatcher) embed(ctx context.Context, data []byte) ([]float32, error) {
	img, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	grid := imaging.RGBGrid(img, inputSide, inputSide)
	in := m.input.GetData()
	for i, v := range grid {
		in[i] = float32((v - pixelMean) / pixelScale)
	}
	if err := m.session.Run(); err != nil {
		return nil, fmt.Errorf("onnx run: %w", err)
	}
	out := m.output.GetData()
	emb := make([]float32, len(out))
	copy(emb, out)
	return emb, nil
}

// Cosine returns the cosine similarity of two embeddings, 0 when either is
// degenerate.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// ScoreFromCosine maps cosine similarity in [-1,1] onto [0,1].
func ScoreFromCosine(cos float64) float64 {
	return math.Max(0, math.Min(1, (cos+1)/2))
}

// resolveSharedLibraryPath prefers an explicit path, then the environment,
// then common install locations.
func resolveSharedLibraryPath(explicit, modelDir string) string {
	if p := strings.TrimSpace(explicit); p != "" {
		return p
	}
	if env := strings.TrimSpace(os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH")); env != "" {
		return env
	}
	names := []string{
		"libonnxruntime.so",
		"onnxruntime.so",
		"libonnxruntime.dylib",
		"onnxruntime.dll",
	}
	dirs := []string{
		modelDir,
		filepath.Join(modelDir, "lib"),
		"/usr/local/lib",
		"/usr/lib",
		"/opt/homebrew/lib",
	}
	for _, dir := range dirs {
		for _, name := range names {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}
