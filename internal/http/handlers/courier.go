package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/logx"
)

const dbTimeout = 3 * time.Second

func withDBTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, dbTimeout)
}

// CourierHandler serves HTTP endpoints for courier resources.
type CourierHandler struct {
	uc     courierUsecase
	logger logx.Logger
}

// NewCourierHandler wires a courierUsecase into HTTP handlers.
func NewCourierHandler(logger logx.Logger, uc courierUsecase) *CourierHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &CourierHandler{uc: uc, logger: logger}
}

// GetByID handles GET /courier/{id}.
func (h *CourierHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	ctx, cancel := withDBTimeout(r.Context())
	defer cancel()

	c, err := h.uc.Get(ctx, id)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, modelToResponse(*c))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "not found")
	default:
		h.internal(w, r, err)
	}
}

// List handles GET /couriers.
func (h *CourierHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var limitPtr, offsetPtr *int
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid limit")
			return
		}
		limitPtr = &v
	}
	if s := q.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid offset")
			return
		}
		offsetPtr = &v
	}

	ctx, cancel := withDBTimeout(r.Context())
	defer cancel()

	list, err := h.uc.List(ctx, limitPtr, offsetPtr)
	if err != nil {
		h.internal(w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, modelsToResponse(list))
}

// Create handles POST /courier.
func (h *CourierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCourierRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	c, ok := req.toModel()
	if !ok {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid location")
		return
	}

	ctx, cancel := withDBTimeout(r.Context())
	defer cancel()

	id, err := h.uc.Create(ctx, c)
	switch {
	case err == nil:
		w.Header().Set("Location", "/courier/"+strconv.FormatInt(id, 10))
		writeJSON(h.logger, w, r, http.StatusCreated, map[string]any{"id": id})
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "phone already exists")
	default:
		h.internal(w, r, err)
	}
}

// Update handles PUT /courier with partial updates from the request body.
func (h *CourierHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateCourierRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	u, ok := req.toModel()
	if !ok {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid location")
		return
	}

	ctx, cancel := withDBTimeout(r.Context())
	defer cancel()

	_, err := h.uc.UpdatePartial(ctx, u)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": "ok"})
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "phone already exists")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "not found")
	default:
		h.internal(w, r, err)
	}
}

func (h *CourierHandler) internal(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("courier request failed",
		logx.String("request_id", reqID(r.Context())),
		logx.String("path", r.URL.Path),
		logx.Any("err", err),
	)
	writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
}
