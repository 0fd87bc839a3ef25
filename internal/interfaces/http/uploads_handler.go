package http

import (
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/h2non/filetype"

	"github.com/jhoicas/hrms-api/internal/application/ports"
)

// UploadsHandler sirve los archivos del almacenamiento local. Cada clave empieza con el
// código de la empresa en minúsculas; solo sus usuarios pueden leerla.
type UploadsHandler struct {
	files ports.FileStorage
}

// NewUploadsHandler construye el handler.
func NewUploadsHandler(files ports.FileStorage) *UploadsHandler {
	return &UploadsHandler{files: files}
}

// Get godoc
// @Summary      Descargar archivo subido
// @Tags         uploads
// @Security     Bearer
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Param        key  path  string  true  "Clave del archivo"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /uploads/{key} [get]
func (h *UploadsHandler) Get(c *fiber.Ctx) error {
	key := strings.TrimPrefix(path.Clean("/"+c.Params("*")), "/")
	if !strings.HasPrefix(key, strings.ToLower(GetCompanyCode(c))+"/") {
		// Otra empresa: mismo 404 que un archivo inexistente.
		return errResourceNotFound
	}
	rc, err := h.files.Open(c.UserContext(), key)
	if err != nil {
		return err
	}
	ct := filetype.GetType(strings.TrimPrefix(path.Ext(key), ".")).MIME.Value
	if ct == "" {
		ct = fiber.MIMEOctetStream
	}
	c.Set(fiber.HeaderContentType, ct)
	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	// fasthttp cierra rc al terminar de enviar.
	return c.SendStream(rc)
}
