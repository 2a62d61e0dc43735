package booking_controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/servenear/marketplace/logger"
	"github.com/servenear/marketplace/models/booking_models"
	"github.com/servenear/marketplace/models/shared_models"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.InitLoggers()
	os.Exit(m.Run())
}

type fakeGateway struct {
	verifyResult bool
}

func (f *fakeGateway) CreateOrder(amount float64, currency, receipt string) (map[string]interface{}, error) {
	return map[string]interface{}{"id": "order_test", "amount": int64(amount * 100)}, nil
}

func (f *fakeGateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return f.verifyResult
}

// asUser injects an authenticated identity the way the auth middleware does.
func asUser(userID uuid.UUID, userType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_type", userType)
		c.Next()
	}
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateBookingRequiresAuth(t *testing.T) {
	bc := NewBookingController(nil, &fakeGateway{verifyResult: true})
	router := gin.New()
	router.POST("/bookings", bc.CreateBooking)

	w := postJSON(router, "/bookings", CreateBookingRequest{
		ServiceID:     uuid.New().String(),
		BookingDate:   "2030-01-10",
		BookingTime:   "10:00",
		PaymentMethod: shared_models.PaymentMethodCash,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateBookingRejectsBadDate(t *testing.T) {
	bc := NewBookingController(nil, &fakeGateway{verifyResult: true})
	router := gin.New()
	router.POST("/bookings", asUser(uuid.New(), shared_models.UserTypeCustomer), bc.CreateBooking)

	w := postJSON(router, "/bookings", CreateBookingRequest{
		ServiceID:     uuid.New().String(),
		BookingDate:   "10/01/2030",
		BookingTime:   "10:00",
		PaymentMethod: shared_models.PaymentMethodCash,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "booking_date")
	assert.Contains(t, w.Body.String(), ErrInvalidDateTimeFormat.Error())
}

func TestCreateBookingRejectsBadTime(t *testing.T) {
	bc := NewBookingController(nil, &fakeGateway{verifyResult: true})
	router := gin.New()
	router.POST("/bookings", asUser(uuid.New(), shared_models.UserTypeCustomer), bc.CreateBooking)

	w := postJSON(router, "/bookings", CreateBookingRequest{
		ServiceID:     uuid.New().String(),
		BookingDate:   "2030-01-10",
		BookingTime:   "10am",
		PaymentMethod: shared_models.PaymentMethodCash,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "booking_time")
	assert.Contains(t, w.Body.String(), ErrInvalidDateTimeFormat.Error())
}

func TestCreateBookingRejectsUnverifiedSignature(t *testing.T) {
	bc := NewBookingController(nil, &fakeGateway{verifyResult: false})
	router := gin.New()
	router.POST("/bookings", asUser(uuid.New(), shared_models.UserTypeCustomer), bc.CreateBooking)

	w := postJSON(router, "/bookings", CreateBookingRequest{
		ServiceID:         uuid.New().String(),
		BookingDate:       "2030-01-10",
		BookingTime:       "10:00",
		PaymentMethod:     shared_models.PaymentMethodRazorpay,
		RazorpayPaymentID: "pay_123",
		RazorpayOrderID:   "order_123",
		RazorpaySignature: "bad-signature",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "verification failed")
}

func TestTransitionRejectsMalformedBookingID(t *testing.T) {
	bc := NewBookingController(nil, &fakeGateway{verifyResult: true})
	router := gin.New()
	router.POST("/bookings/:id/accept", asUser(uuid.New(), shared_models.UserTypeFreelancer), bc.AcceptBooking)

	w := postJSON(router, "/bookings/not-a-uuid/accept", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCanView(t *testing.T) {
	customerID := uuid.New()
	freelancerID := uuid.New()
	booking := &booking_models.Booking{CustomerID: customerID, FreelancerID: freelancerID}

	assert.True(t, canView(booking, customerID, shared_models.UserTypeCustomer))
	assert.True(t, canView(booking, freelancerID, shared_models.UserTypeFreelancer))
	assert.True(t, canView(booking, uuid.New(), shared_models.UserTypeAdmin))
	assert.False(t, canView(booking, uuid.New(), shared_models.UserTypeCustomer))
}
