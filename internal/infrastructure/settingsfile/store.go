// Package settingsfile guarda los datos de la empresa como documento JSON en disco.
package settingsfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.CompanySettingsRepository = (*Store)(nil)

// Store lee y escribe el archivo; la escritura es atómica (archivo temporal + rename).
type Store struct {
	path string
	mu   sync.Mutex
}

// New crea el store para path (ej. data/company.json).
func New(path string) *Store {
	return &Store{path: path}
}

// Load devuelve settings vacíos si el archivo no existe.
func (s *Store) Load(ctx context.Context) (*entity.CompanySettings, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &entity.CompanySettings{}, nil
		}
		return nil, fmt.Errorf("read company settings: %w", err)
	}
	var settings entity.CompanySettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, fmt.Errorf("decode company settings: %w", err)
	}
	return &settings, nil
}

func (s *Store) Save(ctx context.Context, settings *entity.CompanySettings) error {
	raw, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode company settings: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".company-*.json")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(raw, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write company settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close company settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace company settings: %w", err)
	}
	return nil
}
