package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/hrms-api/internal/application/dto"
	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/pkg/logger"
	"github.com/jhoicas/hrms-api/pkg/validator"
)

var kindStatus = []struct {
	kind   error
	status int
	code   string
}{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrValidation, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthenticated, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrPaymentRequired, fiber.StatusPaymentRequired, "PAYMENT_REQUIRED"},
	{domain.ErrInternal, fiber.StatusInternalServerError, "INTERNAL"},
}

// statusOf traduce el tipo de error de dominio a status HTTP y código.
func statusOf(err error) (int, string) {
	kind := domain.KindOf(err)
	for _, k := range kindStatus {
		if k.kind == kind {
			return k.status, k.code
		}
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// toErrorResponse arma el cuerpo de error. Los errores internos no exponen su mensaje
// salvo con includeDetail, que agrega el error completo con su stack.
func toErrorResponse(err error, includeDetail bool) (int, dto.ErrorResponse) {
	status, code := statusOf(err)
	if status == fiber.StatusInternalServerError {
		resp := dto.ErrorResponse{Code: code, Message: "error interno, intente más tarde"}
		if includeDetail {
			resp.Error = fmt.Sprintf("%+v", err)
		}
		return status, resp
	}
	resp := dto.ErrorResponse{Code: code, Message: err.Error()}
	if hint := domain.Hint(err); hint != "" {
		resp.Message = hint
	}
	if fields, ok := domain.AsFieldErrors(err); ok {
		resp.Message = "entrada inválida"
		resp.Details = fields
	}
	return status, resp
}

// writeError responde con el error traducido.
func writeError(c *fiber.Ctx, err error) error {
	status, resp := toErrorResponse(err, false)
	return c.Status(status).JSON(resp)
}

// badBody respuesta para cuerpos que no se pueden decodificar.
func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// parseAndValidate decodifica el cuerpo en v y valida sus tags.
func parseAndValidate(c *fiber.Ctx, v interface{}) error {
	if err := c.BodyParser(v); err != nil {
		return errInvalidBody
	}
	return validator.Struct(v)
}

// parseQuery decodifica y valida los parámetros de consulta en v.
func parseQuery(c *fiber.Ctx, v interface{}) error {
	if err := c.QueryParser(v); err != nil {
		return domain.Wrap(err, domain.ErrValidation, "parámetros de consulta inválidos")
	}
	return validator.Struct(v)
}

var errInvalidBody = errors.New("cuerpo inválido")

var errResourceNotFound = domain.NewError(domain.ErrNotFound, "recurso no encontrado")

// paramID devuelve el parámetro :id normalizado. Un id que no es UUID no puede existir: 404.
func paramID(c *fiber.Ctx) (string, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return "", errResourceNotFound
	}
	return id.String(), nil
}

// respondParse responde al error de parseAndValidate/parseQuery.
func respondParse(c *fiber.Ctx, err error) error {
	if errors.Is(err, errInvalidBody) {
		return badBody(c)
	}
	return writeError(c, err)
}

// ErrorHandler manejador central de Fiber: errores de Fiber con su status y el resto
// traducidos por tipo; los 5xx se registran. includeDetail expone el error completo
// en los 5xx (solo development).
func ErrorHandler(log *logger.Logger, includeDetail bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
		}
		status, resp := toErrorResponse(err, includeDetail)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
		}
		return c.Status(status).JSON(resp)
	}
}
