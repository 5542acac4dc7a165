package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"verigate/internal/kyc/detector"
	"verigate/internal/kyc/detector/backends"
	"verigate/internal/kyc/detector/onnx"
	"verigate/internal/kyc/portrait"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr      string
	APIPrefix string
	LogLevel  slog.Level
}

// Thresholds locates the threshold override sources. Environment variables
// under Prefix are always consulted.
type Thresholds struct {
	Prefix   string
	File     string
	RedisKey string
	Refresh  time.Duration
}

// RedisConfig configures the optional Redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Calibration configures the audit trail.
type Calibration struct {
	Enabled    bool
	Dir        string
	QueueSize  int
	DSN        string
	InstanceID string
}

// Config is the full service configuration.
type Config struct {
	Server       Server
	Thresholds   Thresholds
	Redis        RedisConfig
	PortraitMode portrait.Mode
	Detectors    backends.Config
	Calibration  Calibration
}

// LookupFunc reads one variable; os.LookupEnv in production.
type LookupFunc func(key string) (string, bool)

// FromEnv builds the configuration from environment variables so main stays lean.
func FromEnv() (Config, error) {
	return Load(os.LookupEnv)
}

// Load builds and validates the configuration from lookup. Every invalid value
// is reported, not only the first.
func Load(lookup LookupFunc) (Config, error) {
	e := env{lookup: lookup}

	cfg := Config{
		Server: Server{
			Addr:      e.str("APP_ADDR", ":8080"),
			APIPrefix: e.str("APP_API_PREFIX", "/api/v1"),
			LogLevel:  e.level("APP_LOG_LEVEL", slog.LevelInfo),
		},
		Thresholds: Thresholds{
			Prefix:   strings.ToUpper(e.str("APP_THRESHOLD_PREFIX", "APP")),
			File:     e.str("APP_THRESHOLD_FILE", ""),
			RedisKey: e.str("APP_THRESHOLD_REDIS_KEY", ""),
			Refresh:  e.duration("APP_THRESHOLD_REFRESH", 30*time.Second),
		},
		Redis: RedisConfig{
			URL:          e.str("APP_REDIS_URL", ""),
			PoolSize:     e.integer("APP_REDIS_POOL_SIZE", 10),
			MinIdleConns: e.integer("APP_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  e.duration("APP_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  e.duration("APP_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: e.duration("APP_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Detectors: backends.Config{
			Face:          e.backend("APP_FACE_BACKEND", detector.BackendSimple, detector.FaceBackends),
			Liveness:      e.backend("APP_LIVE_BACKEND", detector.BackendSimple, detector.LivenessBackends),
			Text:          e.backend("APP_OCR_BACKEND", detector.BackendSimple, detector.TextBackends),
			DocClass:      e.backend("APP_DOC_BACKEND", detector.BackendSimple, detector.DocClassBackends),
			Portrait:      e.backend("APP_PORTRAIT_BACKEND", detector.BackendSimple, detector.PortraitBackends),
			Recognizer:    e.backend("APP_TEXT_RECOGNIZER", detector.BackendTesseract, detector.RecognizerBackends),
			RemoteURL:     e.str("APP_REMOTE_DETECTOR_URL", ""),
			Timeout:       e.duration("APP_DETECTOR_TIMEOUT", 10*time.Second),
			TesseractPath: e.str("APP_TESSERACT_PATH", "tesseract"),
			TesseractLang: e.str("APP_TESSERACT_LANG", "eng"),
			ArcFace: onnx.Config{
				ModelPath:   e.str("APP_ARCFACE_MODEL", ""),
				LibraryPath: e.str("ONNXRUNTIME_SHARED_LIBRARY_PATH", ""),
			},
			PortraitMinSize: e.integer("APP_PORTRAIT_MIN_SIZE", 64),
			PortraitMargin:  e.float("APP_PORTRAIT_MARGIN", 0.20),
		},
		Calibration: Calibration{
			Enabled:    e.boolean("APP_CALIBRATION_LOG", false),
			Dir:        e.str("APP_CALIBRATION_DIR", "./calib"),
			QueueSize:  e.integer("APP_CALIBRATION_QUEUE", 1024),
			DSN:        e.str("APP_CALIBRATION_DSN", ""),
			InstanceID: e.str("APP_INSTANCE_ID", hostname()),
		},
	}

	mode, err := portrait.ParseMode(e.str("APP_DOC_PORTRAIT_MODE", ""))
	e.add("APP_DOC_PORTRAIT_MODE", err)
	cfg.PortraitMode = mode

	e.errs = append(e.errs, cfg.validate()...)
	if len(e.errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %w", errors.Join(e.errs...))
	}
	return cfg, nil
}

func (c Config) validate() []error {
	var errs []error
	needsRemote := false
	for _, b := range []detector.Backend{c.Detectors.Face, c.Detectors.Liveness, c.Detectors.Text, c.Detectors.DocClass, c.Detectors.Portrait, c.Detectors.Recognizer} {
		if b == detector.BackendRemote {
			needsRemote = true
		}
	}
	if needsRemote && c.Detectors.RemoteURL == "" {
		errs = append(errs, errors.New("APP_REMOTE_DETECTOR_URL is required when a remote backend is selected"))
	}
	if c.Detectors.Face == detector.BackendONNX && c.Detectors.ArcFace.ModelPath == "" {
		errs = append(errs, errors.New("APP_ARCFACE_MODEL is required when APP_FACE_BACKEND=onnx"))
	}
	if c.Thresholds.RedisKey != "" && c.Redis.URL == "" {
		errs = append(errs, errors.New("APP_REDIS_URL is required when APP_THRESHOLD_REDIS_KEY is set"))
	}
	if c.Detectors.PortraitMargin < 0 || c.Detectors.PortraitMargin >= 0.5 {
		errs = append(errs, fmt.Errorf("APP_PORTRAIT_MARGIN must be in [0, 0.5), got %v", c.Detectors.PortraitMargin))
	}
	if c.Detectors.PortraitMinSize <= 0 {
		errs = append(errs, fmt.Errorf("APP_PORTRAIT_MIN_SIZE must be positive, got %d", c.Detectors.PortraitMinSize))
	}
	if c.Calibration.QueueSize < 0 {
		errs = append(errs, fmt.Errorf("APP_CALIBRATION_QUEUE must not be negative, got %d", c.Calibration.QueueSize))
	}
	if !strings.HasPrefix(c.Server.APIPrefix, "/") {
		errs = append(errs, fmt.Errorf("APP_API_PREFIX must start with '/', got %q", c.Server.APIPrefix))
	}
	return errs
}

type env struct {
	lookup LookupFunc
	errs   []error
}

func (e *env) add(key string, err error) {
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
	}
}

func (e *env) str(key, def string) string {
	if v, ok := e.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (e *env) integer(key string, def int) int {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	e.add(key, err)
	return v
}

func (e *env) float(key string, def float64) float64 {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	e.add(key, err)
	return v
}

func (e *env) boolean(key string, def bool) bool {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	e.add(key, fmt.Errorf("invalid boolean %q", raw))
	return def
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	e.add(key, err)
	return v
}

func (e *env) level(key string, def slog.Level) slog.Level {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	var l slog.Level
	e.add(key, l.UnmarshalText([]byte(raw)))
	return l
}

func (e *env) backend(key string, def detector.Backend, allowed []detector.Backend) detector.Backend {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	b, err := detector.ParseBackend(raw, allowed)
	e.add(key, err)
	return b
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return ""
	}
	return h
}
