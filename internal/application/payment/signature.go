package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// CheckoutSignature HMAC-SHA256(secret, "<orderId>|<paymentId>") en hex.
func CheckoutSignature(secret, providerOrderID, providerPaymentID string) string {
	return sign(secret, []byte(providerOrderID+"|"+providerPaymentID))
}

// WebhookSignature HMAC-SHA256(secret, body) en hex.
func WebhookSignature(secret string, body []byte) string {
	return sign(secret, body)
}

// VerifyCheckoutSignature compara en tiempo constante la firma del checkout.
// Sin secreto configurado ninguna firma es válida.
func VerifyCheckoutSignature(secret, providerOrderID, providerPaymentID, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	return hmac.Equal([]byte(CheckoutSignature(secret, providerOrderID, providerPaymentID)), []byte(signature))
}

// VerifyWebhookSignature compara en tiempo constante la firma del webhook.
func VerifyWebhookSignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	return hmac.Equal([]byte(WebhookSignature(secret, body)), []byte(signature))
}

func sign(secret string, msg []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(msg)
	return hex.EncodeToString(mac.Sum(nil))
}
