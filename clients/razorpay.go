package clients

import (
	"fmt"
	"math"
	"os"

	"github.com/razorpay/razorpay-go"
	razorpayutils "github.com/razorpay/razorpay-go/utils"
)

// PaymentGateway is the surface booking creation needs from Razorpay:
// create an order for the booking amount and verify the checkout signature
// the client sends back. Handlers hold this interface so tests can swap in
// a fake.
type PaymentGateway interface {
	CreateOrder(amount float64, currency, receipt string) (map[string]interface{}, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
}

// RazorpayGateway implements PaymentGateway on the Razorpay SDK.
type RazorpayGateway struct {
	client    *razorpay.Client
	keySecret string
}

// NewRazorpayGateway builds a gateway from RAZORPAY_KEY_ID and
// RAZORPAY_KEY_SECRET.
func NewRazorpayGateway() *RazorpayGateway {
	keyID := os.Getenv("RAZORPAY_KEY_ID")
	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	return &RazorpayGateway{
		client:    razorpay.NewClient(keyID, keySecret),
		keySecret: keySecret,
	}
}

// toPaise converts rupees to the smallest currency unit. Rounded, not
// truncated: float products like 19.99*100 land at 1998.999... and a plain
// cast would short the order by a paise.
func toPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateOrder creates a Razorpay order. Razorpay expects the amount in the
// smallest currency unit, so rupees are converted to paise here.
func (g *RazorpayGateway) CreateOrder(amount float64, currency, receipt string) (map[string]interface{}, error) {
	if currency == "" {
		currency = "INR"
	}
	data := map[string]interface{}{
		"amount":   toPaise(amount),
		"currency": currency,
		"receipt":  receipt,
	}
	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}
	return order, nil
}

// VerifyPaymentSignature checks the checkout callback signature against the
// order and payment ids using the key secret.
func (g *RazorpayGateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	return razorpayutils.VerifyPaymentSignature(params, signature, g.keySecret)
}
