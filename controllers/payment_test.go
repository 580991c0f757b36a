package controllers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"skillshare-api/models"
	"skillshare-api/store"
)

func TestPaymentController_CreatePaymentIntent(t *testing.T) {
	s, es, _ := setup(t)
	provider := &fakeProvider{}
	pc := NewPaymentController(s.Payments, provider, "usd", es, zap.NewNop(), testTimeout)

	tests := []struct {
		name       string
		body       string
		wantAmount int64
	}{
		{"number", `{"price": 10.00}`, 1000},
		{"string", `{"price": "10.00"}`, 1000},
		{"truncates", `{"price": 19.99}`, 1998},
		{"zero passes through", `{"price": 0}`, 0},
		{"negative passes through", `{"price": -5}`, -500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(pc.CreatePaymentIntent, http.MethodPost, tt.body, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"clientSecret":"pi_secret_123"}`, rec.Body.String())
			assert.Equal(t, tt.wantAmount, provider.amount)
			assert.Equal(t, "usd", provider.currency)
		})
	}

	rec := call(pc.CreatePaymentIntent, http.MethodPost, `{"price": "ten"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaymentController_ProviderError(t *testing.T) {
	s, es, _ := setup(t)
	pc := NewPaymentController(s.Payments, &fakeProvider{err: errors.New("amount_too_small")}, "usd", es, zap.NewNop(), testTimeout)

	rec := call(pc.CreatePaymentIntent, http.MethodPost, `{"price": 0.1}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPaymentController_RecordAndList(t *testing.T) {
	s, es, sender := setup(t)
	pc := NewPaymentController(s.Payments, &fakeProvider{}, "usd", es, zap.NewNop(), testTimeout)

	rec := call(pc.CreatePayment, http.MethodPost, models.Payment{
		Email: "s@x.io", Price: 10, TransactionID: "pi_1", ClassName: "Go",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		PaymentResult models.InsertResult `json:"paymentResult"`
	}
	decodeBody(t, rec, &body)
	assert.True(t, body.PaymentResult.Acknowledged)

	rec = call(pc.GetPayments, http.MethodGet, nil, map[string]string{"email": "s@x.io"})
	var payments []models.Payment
	decodeBody(t, rec, &payments)
	require.Len(t, payments, 1)
	assert.Equal(t, "pi_1", payments[0].TransactionID)
	assert.NotNil(t, payments[0].Date)

	rec = call(pc.GetPayments, http.MethodGet, nil, map[string]string{"email": "other@x.io"})
	assert.JSONEq(t, `[]`, rec.Body.String())

	assert.Eventually(t, func() bool {
		r := sender.recipients()
		return len(r) == 1 && r[0] == "s@x.io"
	}, time.Second, 10*time.Millisecond)
}

func TestEnrollmentController(t *testing.T) {
	s, _, _ := setup(t)
	ec := NewEnrollmentController(s.Enrollments, zap.NewNop(), testTimeout)

	call(ec.CreateEnrollment, http.MethodPost, models.Enrollment{Email: "s@x.io", ClassID: "c1", Status: "pending"}, nil)
	call(ec.CreateEnrollment, http.MethodPost, models.Enrollment{Email: "o@x.io", ClassID: "c2"}, nil)

	rec := call(ec.GetEnrollments, http.MethodGet, nil, map[string]string{"email": "s@x.io"})
	var enrolled []models.Enrollment
	decodeBody(t, rec, &enrolled)
	require.Len(t, enrolled, 1)
	assert.Equal(t, "c1", enrolled[0].ClassID)
}

func TestReviewAndHealthControllers(t *testing.T) {
	s, _, _ := setup(t)
	store.AddReview(s, bson.M{"name": "Ann", "details": "great", "rating": 5})

	rc := NewReviewController(s.Reviews, zap.NewNop(), testTimeout)
	rec := call(rc.GetReviews, http.MethodGet, nil, nil)
	var reviews []map[string]interface{}
	decodeBody(t, rec, &reviews)
	require.Len(t, reviews, 1)
	assert.Equal(t, "great", reviews[0]["details"])

	hc := NewHealthController(s, zap.NewNop(), testTimeout)
	rec = call(hc.Home, http.MethodGet, nil, nil)
	assert.Equal(t, "skillShare is running", rec.Body.String())

	rec = call(hc.Health, http.MethodGet, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	hc = NewHealthController(brokenPinger{}, zap.NewNop(), testTimeout)
	rec = call(hc.Health, http.MethodGet, nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
