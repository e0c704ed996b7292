package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// FileKV keeps all keys in a single JSON document on disk. Every mutation
// rewrites the file through a temp-file rename so a crash never leaves a
// half-written store behind.
type FileKV struct {
	mu     sync.Mutex
	path   string
	data   map[string]json.RawMessage
	logger *zap.Logger
}

// NewFileKV loads (or initializes) the store at path.
func NewFileKV(path string, logger *zap.Logger) (*FileKV, error) {
	kv := &FileKV{
		path:   path,
		data:   make(map[string]json.RawMessage),
		logger: logger,
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Info("initializing empty file store", zap.String("path", path))
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(raw, &kv.data); err != nil {
			return nil, err
		}
	}
	return kv, nil
}

func (kv *FileKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	raw, ok := kv.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, true, nil
}

func (kv *FileKV) Set(_ context.Context, key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	stored := make(json.RawMessage, len(value))
	copy(stored, value)
	kv.data[key] = stored
	return kv.flushLocked()
}

func (kv *FileKV) Delete(_ context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if _, ok := kv.data[key]; !ok {
		return nil
	}
	delete(kv.data, key)
	return kv.flushLocked()
}

// Close flushes any pending state. FileKV writes on every mutation so this
// only exists to satisfy the KV contract.
func (kv *FileKV) Close() error {
	return nil
}

func (kv *FileKV) flushLocked() error {
	raw, err := json.MarshalIndent(kv.data, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(kv.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := kv.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, kv.path)
}
