package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"skillshare-api/models"
	"skillshare-api/store"
	"skillshare-api/utils"
)

// PaymentController bridges card payments and stores payment records
type PaymentController struct {
	base
	Payments     store.PaymentStore
	Provider     utils.PaymentProvider
	Currency     string
	EmailService *utils.EmailService
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(payments store.PaymentStore, provider utils.PaymentProvider, currency string, emailService *utils.EmailService, logger *zap.Logger, timeout time.Duration) *PaymentController {
	return &PaymentController{
		base:         newBase(logger, timeout),
		Payments:     payments,
		Provider:     provider,
		Currency:     currency,
		EmailService: emailService,
	}
}

// CreatePaymentIntent asks the provider for a card intent and returns its client secret.
// The amount is passed through unchecked; the provider rejects invalid ones.
func (pc *PaymentController) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Price models.Amount `json:"price"`
	}
	if !decode(w, r, &body) {
		return
	}
	amount := utils.ToMinorUnits(float64(body.Price))
	pc.Logger.Debug("creating payment intent", zap.Int64("amount", amount), zap.String("currency", pc.Currency))

	ctx, cancel := pc.context(r)
	defer cancel()

	clientSecret, err := pc.Provider.CreateCardIntent(ctx, amount, pc.Currency)
	if err != nil {
		pc.fail(w, r, "Error creating payment intent", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"clientSecret": clientSecret})
}

// GetPayments lists the payments of the given student email
func (pc *PaymentController) GetPayments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := pc.context(r)
	defer cancel()

	payments, err := pc.Payments.ListByEmail(ctx, mux.Vars(r)["email"])
	if err != nil {
		pc.fail(w, r, "Error fetching payments", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, payments)
}

// CreatePayment records a payment the client reports as successful. The charge
// is not re-checked with the provider.
func (pc *PaymentController) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var payment models.Payment
	if !decode(w, r, &payment) {
		return
	}
	if payment.Date == nil {
		payment.Date = time.Now().UTC()
	}

	ctx, cancel := pc.context(r)
	defer cancel()

	result, err := pc.Payments.Insert(ctx, &payment)
	if err != nil {
		pc.fail(w, r, "Error recording payment", err)
		return
	}
	pc.EmailService.SendPaymentReceiptEmail(payment)

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"paymentResult": result})
}
