package handler

import (
	"errors"
	"fmt"
	"net/http"

	"bumpbox-be/internal/cart"
	"bumpbox-be/internal/order"
	"bumpbox-be/internal/payment"
	"bumpbox-be/internal/utils"
)

type qrResponse struct {
	*payment.QRPayment
	Instructions []string `json:"instructions"`
}

type qrStatusResponse struct {
	Generated bool `json:"generated"`
}

type instructionsResponse struct {
	Method       payment.Method `json:"method"`
	Instructions []string       `json:"instructions"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(r)
	if !ok {
		writeError(w, r, errSessionMissing)
		return
	}

	var input order.CheckoutInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", errBadRequestBody, err))
		return
	}

	o, err := h.orders.Checkout(r.Context(), sid, input)
	h.placed(w, r, o, err)
}

func (h *Handler) checkoutWithPayment(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(r)
	if !ok {
		writeError(w, r, errSessionMissing)
		return
	}

	var input order.PaymentCheckoutInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", errBadRequestBody, err))
		return
	}

	o, err := h.orders.CheckoutWithPayment(r.Context(), sid, input)
	h.placed(w, r, o, err)
}

func (h *Handler) placed(w http.ResponseWriter, r *http.Request, o *order.Order, err error) {
	if err != nil {
		h.metrics.CheckoutsRejected.Inc()
		writeError(w, r, err)
		return
	}

	h.metrics.OrdersPlaced.Inc()
	utils.WriteJSON(w, http.StatusCreated, o)
}

// generateQR issues a QR code for the current cart total plus fee.
func (h *Handler) generateQR(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(r)
	if !ok {
		writeError(w, r, errSessionMissing)
		return
	}

	sum, err := h.carts.GetCart(r.Context(), sid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(sum.Items) == 0 {
		writeError(w, r, cart.ErrCartEmpty)
		return
	}

	amount := sum.Total + order.ServiceFee
	qr, err := h.payments.GenerateQR(r.Context(), sid, amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.metrics.QRCodesGenerated.Inc()
	utils.WriteJSON(w, http.StatusCreated, qrResponse{
		QRPayment: qr,
		Instructions: h.payments.Instructions(payment.MethodQR, payment.InstructionVars{
			"amount":    formatAmount(amount),
			"reference": qr.Reference,
		}),
	})
}

// qrStatus tells the payment page whether QR payment can be submitted.
func (h *Handler) qrStatus(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(r)
	if !ok {
		writeError(w, r, errSessionMissing)
		return
	}

	generated, err := h.payments.HasQR(r.Context(), sid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, qrStatusResponse{Generated: generated})
}

func (h *Handler) paymentInstructions(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(r)
	if !ok {
		writeError(w, r, errSessionMissing)
		return
	}

	method := payment.Method(r.PathValue("method"))
	if !method.Valid() {
		writeError(w, r, fmt.Errorf("%w: %q", payment.ErrUnknownMethod, method))
		return
	}

	vars := payment.InstructionVars{}

	sum, err := h.carts.GetCart(r.Context(), sid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(sum.Items) > 0 {
		vars["amount"] = formatAmount(sum.Total + order.ServiceFee)
	}

	if method == payment.MethodQR {
		qr, err := h.payments.GetQR(r.Context(), sid)
		switch {
		case err == nil:
			vars["reference"] = qr.Reference
		case !errors.Is(err, payment.ErrQRNotGenerated):
			writeError(w, r, err)
			return
		}
	}

	utils.WriteJSON(w, http.StatusOK, instructionsResponse{
		Method:       method,
		Instructions: h.payments.Instructions(method, vars),
	})
}

func (h *Handler) lastOrder(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(r)
	if !ok {
		writeError(w, r, errSessionMissing)
		return
	}

	o, err := h.orders.LastOrder(r.Context(), sid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

func formatAmount(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
