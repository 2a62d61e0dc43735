package freelancer_models

import (
	"testing"

	"github.com/servenear/marketplace/models/shared_models"
	"github.com/stretchr/testify/assert"
)

func TestAcceptsPaymentMethod(t *testing.T) {
	tests := []struct {
		name        string
		paymentMode string
		method      string
		want        bool
	}{
		{"razorpay always accepted for cash-only", shared_models.PaymentModeCash, shared_models.PaymentMethodRazorpay, true},
		{"razorpay always accepted for gpay-only", shared_models.PaymentModeGpay, shared_models.PaymentMethodRazorpay, true},
		{"gpay-only freelancer refuses cash", shared_models.PaymentModeGpay, shared_models.PaymentMethodCash, false},
		{"cash-only freelancer refuses gpay", shared_models.PaymentModeCash, shared_models.PaymentMethodGpay, false},
		{"both accepts cash", shared_models.PaymentModeBoth, shared_models.PaymentMethodCash, true},
		{"both accepts gpay", shared_models.PaymentModeBoth, shared_models.PaymentMethodGpay, true},
		{"unknown method refused", shared_models.PaymentModeBoth, "crypto", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &FreelancerProfile{PaymentMode: tt.paymentMode}
			assert.Equal(t, tt.want, p.AcceptsPaymentMethod(tt.method))
		})
	}
}
