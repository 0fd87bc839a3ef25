package hr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/jhoicas/hrms-api/internal/application/ports"
	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
	"github.com/jhoicas/hrms-api/pkg/logger"
)

// MaxUploadSize tamaño máximo de un archivo subido.
const MaxUploadSize = 5 << 20

var (
	imageTypes    = []string{"image/jpeg", "image/png", "image/webp"}
	documentTypes = []string{"application/pdf", "image/jpeg", "image/png"}
)

// Upload archivo recibido por multipart.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// sniffed contenido leído y validado de un Upload.
type sniffed struct {
	data []byte
	mime string
	ext  string
}

// readUpload lee el archivo completo (hasta MaxUploadSize) y detecta su tipo por contenido.
// La extensión y el Content-Type que envía el cliente no se usan.
func readUpload(u Upload, allowed []string) (*sniffed, error) {
	if u.Size > MaxUploadSize {
		return nil, domain.Newf(domain.ErrValidation, "el archivo supera %d MB", MaxUploadSize>>20)
	}
	data, err := io.ReadAll(io.LimitReader(u.Body, MaxUploadSize+1))
	if err != nil {
		return nil, domain.Wrap(err, domain.ErrValidation, "leer archivo")
	}
	if len(data) == 0 {
		return nil, domain.NewFieldErrors(domain.FieldErrors{"file": "required"})
	}
	if len(data) > MaxUploadSize {
		return nil, domain.Newf(domain.ErrValidation, "el archivo supera %d MB", MaxUploadSize>>20)
	}
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return nil, domain.ErrUnsupportedFile
	}
	for _, m := range allowed {
		if kind.MIME.Value == m {
			return &sniffed{data: data, mime: m, ext: kind.Extension}, nil
		}
	}
	return nil, domain.WithHint(domain.ErrUnsupportedFile, "Tipos permitidos: "+strings.Join(allowed, ", "))
}

// objectKey <empresa>/<carpeta>/<id>/<uuid>.<ext>
func objectKey(companyCode, folder, ownerID, ext string) string {
	return fmt.Sprintf("%s/%s/%s/%s.%s", strings.ToLower(companyCode), folder, ownerID, uuid.NewString(), ext)
}

// tenantBase colaboradores comunes de los casos de uso de RR.HH.
type tenantBase struct {
	stores repository.TenantStores
	log    *logger.Logger
	now    func() time.Time
}

func newTenantBase(stores repository.TenantStores, log *logger.Logger) tenantBase {
	return tenantBase{stores: stores, log: log, now: time.Now}
}

func (b tenantBase) store(ctx context.Context, companyCode string) (repository.TenantStore, error) {
	return b.stores.Store(ctx, companyCode)
}

// putFile guarda s en el almacenamiento y devuelve la URL pública.
func putFile(ctx context.Context, storage ports.FileStorage, key string, s *sniffed) (string, error) {
	return storage.Put(ctx, key, s.mime, bytes.NewReader(s.data), int64(len(s.data)))
}

// dropFile borra un archivo reemplazado; un fallo solo se registra.
func dropFile(ctx context.Context, storage ports.FileStorage, log *logger.Logger, key string) {
	if key == "" {
		return
	}
	if err := storage.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("no se pudo borrar el archivo reemplazado")
	}
}

func parseDate(field, v string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, domain.NewFieldErrors(domain.FieldErrors{field: "datetime=2006-01-02"})
	}
	return t, nil
}

func parseOptionalDate(field, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := parseDate(field, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}
