package handler

import (
	"fmt"
	"net/http"

	"bumpbox-be/internal/utils"
)

type addItemRequest struct {
	ItemID string `json:"itemId"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
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
	utils.WriteJSON(w, http.StatusOK, sum)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(r)
	if !ok {
		writeError(w, r, errSessionMissing)
		return
	}

	var req addItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", errBadRequestBody, err))
		return
	}

	sum, err := h.carts.AddItem(r.Context(), sid, req.ItemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sum)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(r)
	if !ok {
		writeError(w, r, errSessionMissing)
		return
	}

	var req updateQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", errBadRequestBody, err))
		return
	}
	if req.Quantity == nil {
		writeError(w, r, fmt.Errorf("%w: quantity is required", errBadRequestBody))
		return
	}

	sum, err := h.carts.UpdateQuantity(r.Context(), sid, r.PathValue("id"), *req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sum)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(r)
	if !ok {
		writeError(w, r, errSessionMissing)
		return
	}

	sum, err := h.carts.RemoveItem(r.Context(), sid, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sum)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(r)
	if !ok {
		writeError(w, r, errSessionMissing)
		return
	}

	if err := h.carts.ClearCart(r.Context(), sid); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
