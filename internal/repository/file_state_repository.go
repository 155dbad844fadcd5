package repository

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/momentumapp/momentum/pkg/entity"
)

// FileStateRepository persists the whole RootState as one JSON blob on disk.
// It is the local-storage backend: corrupt or missing blobs silently fall
// back to the default state so a broken file can never take the app down.
type FileStateRepository struct {
	path string
}

func NewFileStateRepo(path string) *FileStateRepository {
	return &FileStateRepository{
		path: path,
	}
}

func (fr *FileStateRepository) Load(ctx context.Context) *entity.RootState {
	raw, err := os.ReadFile(fr.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("state file unreadable, starting from defaults", slog.String("error", err.Error()))
		}
		return entity.DefaultState()
	}
	var state entity.RootState
	if err := sonic.Unmarshal(raw, &state); err != nil {
		slog.Warn("state file corrupt, starting from defaults", slog.String("error", err.Error()))
		return entity.DefaultState()
	}
	state.Normalize()
	if !state.Valid() {
		slog.Warn("state file has unrecognized shape, starting from defaults")
		return entity.DefaultState()
	}
	return &state
}

func (fr *FileStateRepository) Save(ctx context.Context, state *entity.RootState) error {
	raw, err := sonic.Marshal(state)
	if err != nil {
		return errors.New("encoding state error: " + err.Error())
	}
	dir := filepath.Dir(fr.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.New("creating state dir error: " + err.Error())
	}
	// Write-then-rename keeps a crashed write from corrupting the last
	// good blob.
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return errors.New("creating temp state file error: " + err.Error())
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.New("writing state error: " + err.Error())
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.New("closing state file error: " + err.Error())
	}
	if err := os.Rename(tmp.Name(), fr.path); err != nil {
		os.Remove(tmp.Name())
		return errors.New("replacing state file error: " + err.Error())
	}
	return nil
}

func (fr *FileStateRepository) Reset(ctx context.Context) *entity.RootState {
	if err := os.Remove(fr.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("removing state file error", slog.String("error", err.Error()))
	}
	return entity.DefaultState()
}
