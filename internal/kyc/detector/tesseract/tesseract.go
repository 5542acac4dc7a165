// Package tesseract shells out to the tesseract CLI to recognize text.
package tesseract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const (
	defaultBinary   = "tesseract"
	defaultLanguage = "eng"
	// psm 6: assume a single uniform block of text
	defaultPSM = "6"
)

// Recognizer runs one tesseract process per image, reading the image from
// stdin and the text from stdout.
type Recognizer struct {
	binary   string
	language string
	psm      string
}

// Option configures a Recognizer.
type Option func(*Recognizer)

func WithLanguage(lang string) Option {
	return func(r *Recognizer) {
		if lang != "" {
			r.language = lang
		}
	}
}

func WithPageSegMode(psm string) Option {
	return func(r *Recognizer) {
		if psm != "" {
			r.psm = psm
		}
	}
}

// New creates a Recognizer. An empty binary uses "tesseract" from PATH.
func New(binary string, opts ...Option) *Recognizer {
	if binary == "" {
		binary = defaultBinary
	}
	r := &Recognizer{binary: binary, language: defaultLanguage, psm: defaultPSM}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Available reports whether the binary can be resolved.
func (r *Recognizer) Available() error {
	if _, err := exec.LookPath(r.binary); err != nil {
		return fmt.Errorf("tesseract binary %q: %w", r.binary, err)
	}
	return nil
}

func (r *Recognizer) Args() []string {
	return []string{"stdin", "stdout", "-l", r.language, "--psm", r.psm}
}

func (r *Recognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", errors.New("empty image")
	}
	cmd := exec.CommandContext(ctx, r.binary, r.Args()...)
	cmd.Stdin = bytes.NewReader(image)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}
