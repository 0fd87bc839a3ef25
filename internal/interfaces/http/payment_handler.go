package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hrms-api/internal/application/dto"
	"github.com/jhoicas/hrms-api/internal/application/payment"
)

// HeaderWebhookSignature cabecera con la firma HMAC del cuerpo del webhook.
const HeaderWebhookSignature = "X-Razorpay-Signature"

// PaymentHandler maneja órdenes, verificación y webhooks de pago del plan.
type PaymentHandler struct {
	uc *payment.UseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *payment.UseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// CreateOrder godoc
// @Summary      Crear orden de pago del plan
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Success      201  {object}  dto.CreateOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/payments/orders [post]
func (h *PaymentHandler) CreateOrder(c *fiber.Ctx) error {
	out, err := h.uc.CreateOrder(c.UserContext(), GetCompanyCode(c), GetUserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Verify godoc
// @Summary      Verificar pago del checkout
// @Description  Comprueba la firma del checkout y que la pasarela reporte el pago como capturado; activa el plan.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Param        body  body  dto.VerifyPaymentRequest  true  "Datos devueltos por el checkout"
// @Success      200   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/payments/verify [post]
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	var in dto.VerifyPaymentRequest
	if err := parseAndValidate(c, &in); err != nil {
		return respondParse(c, err)
	}
	out, err := h.uc.VerifyPayment(c.UserContext(), GetCompanyCode(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar pagos
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        X-Company-Code   header  string  true   "Código de empresa"
// @Param        status           query   string  false  "Estado"
// @Param        include_expired  query   bool    false  "Incluir órdenes vencidas"
// @Param        limit            query   int     false  "Límite"  default(20)
// @Param        offset           query   int     false  "Offset"  default(0)
// @Success      200  {object}  dto.PaymentListResponse
// @Router       /api/payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	var in dto.PaymentListRequest
	if err := parseQuery(c, &in); err != nil {
		return respondParse(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetCompanyCode(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener pago por order_id
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Param        orderId  path  string  true  "order_id interno"
// @Success      200  {object}  dto.PaymentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payments/{orderId} [get]
func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyCode(c), c.Params("orderId"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar orden sin pagar
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Param        orderId  path  string  true  "order_id interno"
// @Success      200  {object}  dto.PaymentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/payments/{orderId}/cancel [post]
func (h *PaymentHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), GetCompanyCode(c), c.Params("orderId"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF
// @Tags         payments
// @Security     Bearer
// @Produce      application/pdf
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Param        orderId  path  string  true  "order_id interno"
// @Success      200  {file}  file
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/payments/{orderId}/receipt [get]
func (h *PaymentHandler) Receipt(c *fiber.Ctx) error {
	orderID := c.Params("orderId")
	pdf, err := h.uc.Receipt(c.UserContext(), GetCompanyCode(c), orderID)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="recibo-`+orderID+`.pdf"`)
	return c.Send(pdf)
}

// Webhook godoc
// @Summary      Webhook de la pasarela
// @Description  Público. El cuerpo crudo se firma con el secreto de webhooks (cabecera X-Razorpay-Signature).
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        X-Razorpay-Signature  header  string  true  "HMAC-SHA256 del cuerpo"
// @Success      200  {object}  dto.MessageResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/payments/webhook [post]
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	// El cuerpo se copia: fasthttp reutiliza el buffer y el evento se guarda después.
	body := append([]byte(nil), c.Body()...)
	if err := h.uc.HandleWebhook(c.UserContext(), body, c.Get(HeaderWebhookSignature)); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "ok"})
}
