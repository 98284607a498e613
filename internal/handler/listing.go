package handler

import (
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"

	"bumpbox-be/internal/listing"
	"bumpbox-be/internal/utils"
)

const (
	// maxUploadBody bounds a multipart listing with its image and video.
	maxUploadBody   = 200 << 20
	multipartMemory = 32 << 20
)

func (h *Handler) createListing(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(r)
	if !ok {
		writeError(w, r, errSessionMissing)
		return
	}

	input, err := readListingInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	l, err := h.listings.Create(r.Context(), sid, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.metrics.ListingsCreated.Inc()
	utils.WriteJSON(w, http.StatusCreated, l)
}

func (h *Handler) lastListing(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(r)
	if !ok {
		writeError(w, r, errSessionMissing)
		return
	}

	l, err := h.listings.LastListing(r.Context(), sid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, l)
}

// readListingInput accepts either a JSON body with media metadata or a
// multipart form carrying the image and video files. File contents are
// discarded; only their metadata is kept.
func readListingInput(w http.ResponseWriter, r *http.Request) (listing.CreateInput, error) {
	var input listing.CreateInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := decodeJSON(w, r, &input); err != nil {
			return input, fmt.Errorf("%w: %w", errBadRequestBody, err)
		}
		return input, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return input, fmt.Errorf("%w: %w", errBadRequestBody, err)
	}
	defer r.MultipartForm.RemoveAll()

	input = listing.CreateInput{
		Title:       r.FormValue("title"),
		Category:    r.FormValue("category"),
		Price:       listing.PriceInput(r.FormValue("price")),
		Condition:   listing.Condition(r.FormValue("condition")),
		Description: r.FormValue("description"),
		LockerID:    r.FormValue("lockerId"),
		Image:       mediaFromForm(r.MultipartForm, "image"),
		Video:       mediaFromForm(r.MultipartForm, "video"),
	}
	return input, nil
}

func mediaFromForm(form *multipart.Form, field string) *listing.Media {
	files := form.File[field]
	if len(files) == 0 {
		return nil
	}

	fh := files[0]
	return &listing.Media{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	}
}
