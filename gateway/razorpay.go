package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	apperrors "enrollment-module/errors"
	"enrollment-module/logger"

	"github.com/razorpay/razorpay-go"
)

// Client creates remote payment orders and verifies completion signatures.
// Failures to reach the gateway surface as Unavailable errors; the adapter
// never retries on its own.
type Client interface {
	CreateOrder(amountPaise int64, currency, receipt string) (orderID string, err error)
	VerifySignature(orderID, paymentID, signature string) bool
}

type razorpayClient struct {
	api       *razorpay.Client
	keySecret string
	log       *logger.Logger
}

// NewRazorpay builds the Razorpay-backed gateway client.
func NewRazorpay(keyID, keySecret string, log *logger.Logger) (Client, error) {
	if keyID == "" || keySecret == "" {
		return nil, apperrors.E(apperrors.Internal, "razorpay credentials not configured")
	}
	return &razorpayClient{
		api:       razorpay.NewClient(keyID, keySecret),
		keySecret: keySecret,
		log:       log,
	}, nil
}

// CreateOrder registers a payment order with Razorpay and returns its id.
// The amount is already in paise; conversion (with rounding) is the
// caller's job so this adapter never touches rupee arithmetic.
func (c *razorpayClient) CreateOrder(amountPaise int64, currency, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
	}

	resp, err := c.api.Order.Create(data, nil)
	if err != nil {
		c.log.Error("Razorpay order creation failed: %v", err)
		return "", apperrors.E(apperrors.Unavailable, "payment gateway unavailable", err)
	}

	orderID, ok := resp["id"].(string)
	if !ok || orderID == "" {
		c.log.Error("Razorpay order response missing id: %v", resp)
		return "", apperrors.E(apperrors.Unavailable, "malformed gateway response")
	}

	return orderID, nil
}

// VerifySignature checks the HMAC-SHA256 signature Razorpay attaches to a
// completed payment: hex(HMAC-SHA256(secret, orderID + "|" + paymentID)).
func (c *razorpayClient) VerifySignature(orderID, paymentID, signature string) bool {
	h := hmac.New(sha256.New, []byte(c.keySecret))
	h.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(h.Sum(nil))

	// Constant-time comparison
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign computes the signature Razorpay would produce for an order/payment
// pair. Exposed for tests and for building sandbox callbacks.
func Sign(orderID, paymentID, keySecret string) string {
	h := hmac.New(sha256.New, []byte(keySecret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}
