// Package backends assembles a detector.Set from configuration. Selection
// happens once at start-up; the pipeline only ever sees the capability
// interfaces.
package backends

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"verigate/internal/kyc/detector"
	"verigate/internal/kyc/detector/onnx"
	"verigate/internal/kyc/detector/remote"
	"verigate/internal/kyc/detector/simple"
	"verigate/internal/kyc/detector/tesseract"
)

// Config selects a backend per capability and carries backend settings.
type Config struct {
	Face       detector.Backend
	Liveness   detector.Backend
	Text       detector.Backend
	DocClass   detector.Backend
	Portrait   detector.Backend
	Recognizer detector.Backend

	RemoteURL string
	Timeout   time.Duration

	TesseractPath string
	TesseractLang string

	ArcFace onnx.Config

	PortraitMinSize int
	PortraitMargin  float64
}

// Build constructs every configured backend. The returned close function
// releases model sessions and must be called on shutdown.
func Build(cfg Config, logger *slog.Logger) (*detector.Set, func() error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b := &builder{cfg: cfg, logger: logger}
	set, err := b.build()
	if err != nil {
		_ = b.close()
		return nil, nil, err
	}
	if err := set.Validate(); err != nil {
		_ = b.close()
		return nil, nil, err
	}
	return set, b.close, nil
}

type builder struct {
	cfg     Config
	logger  *slog.Logger
	remote  *remote.Client
	closers []func() error
}

func (b *builder) build() (*detector.Set, error) {
	set := &detector.Set{}
	var err error
	if set.Face, err = b.face(); err != nil {
		return nil, err
	}
	if set.Liveness, err = b.liveness(); err != nil {
		return nil, err
	}
	if set.Text, err = b.text(); err != nil {
		return nil, err
	}
	if set.DocClass, err = b.docClass(); err != nil {
		return nil, err
	}
	if set.Portrait, err = b.portrait(); err != nil {
		return nil, err
	}
	b.logger.Info("detector backends ready",
		"face", b.cfg.Face,
		"liveness", b.cfg.Liveness,
		"ocr", b.cfg.Text,
		"doc_class", b.cfg.DocClass,
		"portrait", b.cfg.Portrait,
		"recognizer", b.cfg.Recognizer,
	)
	return set, nil
}

func (b *builder) remoteClient() (*remote.Client, error) {
	if b.remote != nil {
		return b.remote, nil
	}
	if b.cfg.RemoteURL == "" {
		return nil, errors.New("remote backend selected but no detector URL configured")
	}
	b.remote = remote.New(b.cfg.RemoteURL, b.cfg.Timeout)
	return b.remote, nil
}

func (b *builder) face() (detector.FaceMatcher, error) {
	switch b.cfg.Face {
	case detector.BackendSimple, "":
		return simple.NewFaceMatcher(), nil
	case detector.BackendRemote:
		return b.remoteClient()
	case detector.BackendONNX:
		m, err := onnx.Load(b.cfg.ArcFace)
		if err != nil {
			return nil, fmt.Errorf("load arcface model: %w", err)
		}
		b.closers = append(b.closers, m.Close)
		// onnxruntime sessions share preallocated tensors
		return detector.ExclusiveFace(m), nil
	default:
		return nil, fmt.Errorf("unsupported face backend %q", b.cfg.Face)
	}
}

func (b *builder) liveness() (detector.LivenessDetector, error) {
	switch b.cfg.Liveness {
	case detector.BackendSimple, "":
		return simple.NewLivenessDetector(), nil
	case detector.BackendRemote:
		return b.remoteClient()
	default:
		return nil, fmt.Errorf("unsupported liveness backend %q", b.cfg.Liveness)
	}
}

func (b *builder) text() (detector.TextExtractor, error) {
	switch b.cfg.Text {
	case detector.BackendSimple, "":
		rec, err := b.recognizer()
		if err != nil {
			return nil, err
		}
		return simple.NewTextExtractor(rec), nil
	case detector.BackendRemote:
		return b.remoteClient()
	default:
		return nil, fmt.Errorf("unsupported ocr backend %q", b.cfg.Text)
	}
}

func (b *builder) docClass() (detector.DocumentClassifier, error) {
	switch b.cfg.DocClass {
	case detector.BackendSimple, "":
		rec, err := b.recognizer()
		if err != nil {
			return nil, err
		}
		return simple.NewDocumentClassifier(rec), nil
	case detector.BackendRemote:
		return b.remoteClient()
	default:
		return nil, fmt.Errorf("unsupported doc class backend %q", b.cfg.DocClass)
	}
}

func (b *builder) portrait() (detector.PortraitExtractor, error) {
	switch b.cfg.Portrait {
	case detector.BackendSimple, "":
		return simple.NewPortraitExtractor(b.cfg.PortraitMinSize, b.cfg.PortraitMargin), nil
	case detector.BackendRemote:
		return b.remoteClient()
	case detector.BackendOff:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported portrait backend %q", b.cfg.Portrait)
	}
}

func (b *builder) recognizer() (detector.TextRecognizer, error) {
	switch b.cfg.Recognizer {
	case detector.BackendTesseract, "":
		rec := tesseract.New(b.cfg.TesseractPath, tesseract.WithLanguage(b.cfg.TesseractLang))
		if err := rec.Available(); err != nil {
			// not fatal: calls fail per request and surface as skipped checks
			b.logger.Warn("tesseract not available", "error", err)
		}
		return rec, nil
	case detector.BackendRemote:
		return b.remoteClient()
	default:
		return nil, fmt.Errorf("unsupported text recognizer %q", b.cfg.Recognizer)
	}
}

func (b *builder) close() error {
	var errs []error
	for _, c := range b.closers {
		errs = append(errs, c())
	}
	b.closers = nil
	return errors.Join(errs...)
}
