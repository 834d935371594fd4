package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mdobak/go-xerrors"
)

// FileProvider keeps the entries in a single JSON object on disk, readable by the owner only.
type FileProvider struct {
	path string
	log  *slog.Logger
	mu   sync.Mutex
}

type CorruptFileError struct {
	Path string
	Err  error
}

func (e *CorruptFileError) Error() string {
	return "session file " + e.Path + " is corrupted: " + e.Err.Error()
}

func (e *CorruptFileError) Unwrap() error {
	return e.Err
}

func NewFileProvider(path string, log *slog.Logger) *FileProvider {
	if log == nil {
		log = slog.Default()
	}
	return &FileProvider{path: path, log: log}
}

func (f *FileProvider) Path() string {
	return f.path
}

func (f *FileProvider) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, xerrors.Newf("read session file: %w", err)
	}
	if len(raw) == 0 {
		return map[string]string{}, nil
	}

	data := map[string]string{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, xerrors.New(&CorruptFileError{Path: f.path, Err: err})
	}
	return data, nil
}

// loadForWrite starts over from an empty state when the file cannot be decoded.
func (f *FileProvider) loadForWrite() (map[string]string, error) {
	data, err := f.load()
	if err == nil {
		return data, nil
	}
	var corrupt *CorruptFileError
	if !errors.As(err, &corrupt) {
		return nil, err
	}
	f.log.Warn("discarding corrupted session file", slog.String("path", f.path))
	return map[string]string{}, nil
}

func (f *FileProvider) store(data map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return xerrors.Newf("create session directory: %w", err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return xerrors.New(err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return xerrors.Newf("create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return xerrors.Newf("write session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return xerrors.New(err)
	}
	if err := tmp.Close(); err != nil {
		return xerrors.New(err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return xerrors.Newf("replace session file: %w", err)
	}
	return nil
}

func (f *FileProvider) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return "", false, err
	}
	value, found := data[key]
	return value, found, nil
}

func (f *FileProvider) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.loadForWrite()
	if err != nil {
		return err
	}
	data[key] = value
	return f.store(data)
}

func (f *FileProvider) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.loadForWrite()
	if err != nil {
		return err
	}
	for _, key := range keys {
		delete(data, key)
	}
	if len(data) == 0 {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return xerrors.Newf("remove session file: %w", err)
		}
		return nil
	}
	return f.store(data)
}
