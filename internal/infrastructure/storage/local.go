package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jhoicas/hrms-api/internal/application/ports"
	"github.com/jhoicas/hrms-api/internal/domain"
)

var _ ports.FileStorage = (*Local)(nil)

// Local guarda los archivos en disco; el servidor HTTP los expone bajo baseURL.
type Local struct {
	dir     string
	baseURL string
}

// NewLocal construye el almacenamiento local y crea el directorio raíz.
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de uploads: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir directorio raíz.
func (s *Local) Dir() string {
	return s.dir
}

// Put escribe el archivo en <dir>/<key> y devuelve <baseURL>/<key>.
func (s *Local) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	full, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("crear directorio: %w", err)
	}

	tmp := full + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("crear archivo: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("escribir archivo: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("cerrar archivo: %w", err)
	}
	if err := os.Rename(tmp, full); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("mover archivo: %w", err)
	}
	return s.baseURL + "/" + cleanKey(key), nil
}

// Open abre el archivo guardado bajo key.
func (s *Local) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	full, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewError(domain.ErrNotFound, "archivo no encontrado")
		}
		return nil, fmt.Errorf("abrir archivo: %w", err)
	}
	return f, nil
}

// Delete borra el archivo; si no existe no es error.
func (s *Local) Delete(ctx context.Context, key string) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("borrar archivo: %w", err)
	}
	return nil
}

func (s *Local) path(key string) (string, error) {
	k := cleanKey(key)
	if k == "" || k == "." || strings.HasPrefix(k, "..") {
		return "", domain.NewError(domain.ErrValidation, "clave de archivo inválida")
	}
	return filepath.Join(s.dir, filepath.FromSlash(k)), nil
}

func cleanKey(key string) string {
	return strings.TrimPrefix(path.Clean("/"+key), "/")
}
