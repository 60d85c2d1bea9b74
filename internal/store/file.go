package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps every guild in a single JSON document that is rewritten in full
// on each save.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the document, returning an empty map if the file does not exist.
func (f *FileStore) Load(ctx context.Context) (Guilds, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return Guilds{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	guilds := Guilds{}
	if len(bytes.TrimSpace(data)) == 0 {
		return guilds, nil
	}
	if err := json.Unmarshal(data, &guilds); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", f.path, err)
	}
	return guilds, nil
}

// Save writes guilds with 4-space indentation. The document is written to a temp
// file in the same directory and renamed over the old one.
func (f *FileStore) Save(ctx context.Context, guilds Guilds) error {
	if guilds == nil {
		guilds = Guilds{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(guilds); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	data := bytes.TrimRight(buf.Bytes(), "\n")

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp config file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}
