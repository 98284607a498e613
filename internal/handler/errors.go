package handler

import (
	"errors"
	"net/http"

	"bumpbox-be/internal/cart"
	"bumpbox-be/internal/catalog"
	"bumpbox-be/internal/listing"
	"bumpbox-be/internal/logger"
	"bumpbox-be/internal/order"
	"bumpbox-be/internal/payment"
	"bumpbox-be/internal/utils"

	"go.uber.org/zap"
)

var (
	errSessionMissing = errors.New("no session")
	errBadRequestBody = errors.New("malformed request body")
)

type errorResponse struct {
	Error    string            `json:"error"`
	Redirect string            `json:"redirect,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// writeError maps domain errors to a status code and, where the client
// should leave the page, a redirect path.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, redirect := classify(err)
	resp := errorResponse{Error: err.Error(), Redirect: redirect}

	var verr *utils.ValidationError
	if errors.As(err, &verr) {
		resp.Error = verr.Err.Error()
		resp.Fields = verr.Fields
	}

	log := logger.FromCtx(r.Context()).With(
		zap.String("layer", "handler"),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
	)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
		resp.Error = http.StatusText(status)
	} else {
		log.Info("request rejected", zap.Error(err))
	}

	if redirect != "" {
		utils.WriteJSONRedirect(w, resp.Error, redirect, status)
		return
	}
	utils.WriteJSON(w, status, resp)
}

func classify(err error) (int, string) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge, ""
	}

	switch {
	case errors.Is(err, cart.ErrCartEmpty):
		return http.StatusConflict, "/cart"

	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, order.ErrCorruptOrder),
		errors.Is(err, listing.ErrListingNotFound),
		errors.Is(err, listing.ErrCorruptListing):
		return http.StatusNotFound, "/"

	case errors.Is(err, catalog.ErrItemNotFound),
		errors.Is(err, catalog.ErrLockerNotFound):
		return http.StatusNotFound, ""

	case errors.Is(err, cart.ErrItemUnavailable):
		return http.StatusConflict, ""

	case errors.Is(err, errSessionMissing):
		return http.StatusUnauthorized, ""

	case errors.Is(err, errBadRequestBody),
		errors.Is(err, order.ErrInvalidCheckout),
		errors.Is(err, order.ErrPaymentInvalid),
		errors.Is(err, listing.ErrInvalidListing),
		errors.Is(err, cart.ErrItemIDRequired),
		errors.Is(err, payment.ErrUnknownMethod),
		errors.Is(err, payment.ErrInvalidAmount):
		return http.StatusBadRequest, ""
	}

	return http.StatusInternalServerError, ""
}
