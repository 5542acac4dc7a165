package threshold

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// FileSource serves overrides from a file and reloads it when it changes.
// Files ending in .env hold KEY=VALUE lines (the calibrator's output format);
// anything else is a flat YAML mapping.
type FileSource struct {
	snapshot
	path   string
	logger *slog.Logger
}

// NewFileSource performs the initial load; a missing or unreadable file is an
// error so that misconfiguration surfaces at start-up.
func NewFileSource(path string, logger *slog.Logger) (*FileSource, error) {
	fs := &FileSource{path: path, logger: logger}
	values, err := fs.load()
	if err != nil {
		return nil, err
	}
	fs.swap(values)
	return fs, nil
}

// Reload forces an immediate re-read. On error the previous snapshot stays.
func (fs *FileSource) Reload() error {
	values, err := fs.load()
	if err != nil {
		return err
	}
	fs.swap(values)
	return nil
}

// Watch hot-reloads the file on change until stop is called. The parent
// directory is watched so that editors replacing the file are noticed.
func (fs *FileSource) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("threshold watcher: %w", err)
	}
	dir := filepath.Dir(fs.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("threshold watcher add %s: %w", dir, err)
	}

	name := filepath.Clean(fs.path)
	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != name {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
					if err := fs.Reload(); err != nil {
						// Keep serving the old snapshot.
						fs.warn("threshold file reload failed", err)
						continue
					}
					if fs.logger != nil {
						fs.logger.Info("threshold overrides reloaded", "path", fs.path, "keys", fs.Len())
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				fs.warn("threshold watcher error", err)
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }, nil
}

func (fs *FileSource) warn(msg string, err error) {
	if fs.logger != nil {
		fs.logger.Warn(msg, "path", fs.path, "error", err)
	}
}

func (fs *FileSource) load() (MapSource, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		return nil, fmt.Errorf("read threshold overrides %s: %w", fs.path, err)
	}
	var values map[string]string
	if strings.EqualFold(filepath.Ext(fs.path), ".env") {
		values = parseDotEnv(data)
	} else if values, err = parseYAML(data); err != nil {
		return nil, fmt.Errorf("parse threshold overrides %s: %w", fs.path, err)
	}
	return NewMapSource(values), nil
}

func parseYAML(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case int:
			out[k] = strconv.Itoa(val)
		case nil:
			// "KEY:" with no value is treated as absent
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out, nil
}

func parseDotEnv(data []byte) map[string]string {
	out := map[string]string{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(k)] = strings.Trim(strings.TrimSpace(v), `"'`)
	}
	return out
}
