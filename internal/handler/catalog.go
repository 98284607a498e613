package handler

import (
	"net/http"

	"bumpbox-be/internal/catalog"
	"bumpbox-be/internal/utils"
)

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	var filter catalog.ItemFilter

	q := r.URL.Query()
	if c := q.Get("category"); c != "" {
		filter.Category = &c
	}
	if a := catalog.Availability(q.Get("availability")); a != "" {
		if !a.Valid() {
			utils.WriteJSONError(w, "unknown availability", http.StatusBadRequest)
			return
		}
		filter.Availability = &a
	}

	items, err := h.catalog.ListItems(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) listLockers(w http.ResponseWriter, r *http.Request) {
	lockers, err := h.catalog.ListLockers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, lockers)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, categories)
}
