package domain

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// Tipos de error del dominio. Todo error de negocio se marca con uno de ellos
// y la capa HTTP los traduce a un status en un solo lugar.
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrValidation      = errors.New("entrada inválida")
	ErrUnauthenticated = errors.New("autenticación requerida")
	ErrForbidden       = errors.New("acceso denegado")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrPaymentRequired = errors.New("plan inactivo o vencido")
	ErrInternal        = errors.New("error interno")
)

var kinds = []error{
	ErrNotFound, ErrValidation, ErrUnauthenticated, ErrForbidden,
	ErrConflict, ErrPaymentRequired, ErrInternal,
}

// Errores concretos (cada uno marcado con su tipo).
var (
	ErrUserNotFound       = NewError(ErrNotFound, "usuario no encontrado")
	ErrCompanyNotFound    = NewError(ErrNotFound, "empresa no encontrada")
	ErrPaymentNotFound    = NewError(ErrNotFound, "pago no encontrado")
	ErrEmailAlreadyExists = NewError(ErrConflict, "el email ya está registrado")
	ErrCompanyCodeTaken   = NewError(ErrConflict, "el código de empresa ya existe")
	ErrPlanAlreadyPaid    = NewError(ErrConflict, "la empresa ya tiene un pago completado en este ciclo")
	ErrInvalidTransition  = NewError(ErrConflict, "transición de estado inválida")
	ErrInvalidCredentials = NewError(ErrUnauthenticated, "credenciales inválidas")
	ErrMissingCompanyCode = NewError(ErrUnauthenticated, "código de empresa requerido")
	ErrEmailNotVerified   = NewError(ErrForbidden, "el email de la empresa no está verificado")
	ErrAccountInactive    = NewError(ErrForbidden, "cuenta inactiva o suspendida")
	ErrSignatureMismatch  = NewError(ErrValidation, "firma de pago inválida")
	ErrPaymentNotCaptured = NewError(ErrValidation, "el proveedor no reporta el pago como capturado")
	ErrUnsupportedFile    = NewError(ErrValidation, "tipo de archivo no permitido")
)

// NewError crea un error con mensaje y lo marca con el tipo indicado.
func NewError(kind error, msg string) error {
	return errors.Mark(errors.New(msg), kind)
}

// Newf igual que NewError con formato.
func Newf(kind error, format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), kind)
}

// Wrap agrega contexto a err y lo marca con el tipo indicado.
func Wrap(err error, kind error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrap(err, msg), kind)
}

// WithHint adjunta un mensaje orientado al cliente.
func WithHint(err error, hint string) error {
	return errors.WithHint(err, hint)
}

// Hint devuelve los hints acumulados del error (vacío si no hay).
func Hint(err error) string {
	return errors.FlattenHints(err)
}

// KindOf devuelve el tipo de un error; los errores no marcados son ErrInternal.
func KindOf(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrInternal
}

// Is reexporta errors.Is para que los paquetes de aplicación no importen cockroachdb directamente.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// FieldErrors detalle por campo de un error de validación.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "validación: " + strings.Join(parts, "; ")
}

// NewFieldErrors marca el detalle por campo como ErrValidation.
func NewFieldErrors(fields FieldErrors) error {
	return errors.Mark(fields, ErrValidation)
}

// AsFieldErrors extrae el detalle por campo si existe.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
