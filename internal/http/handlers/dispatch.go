package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/logx"
)

// DispatchHandler exposes order dispatch and courier decisions over HTTP.
type DispatchHandler struct {
	uc     dispatchUsecase
	logger logx.Logger
}

// NewDispatchHandler creates a new DispatchHandler.
func NewDispatchHandler(logger logx.Logger, uc dispatchUsecase) *DispatchHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &DispatchHandler{uc: uc, logger: logger}
}

// Dispatch handles POST /dispatch/orders.
func (h *DispatchHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchOrderRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	res, err := h.uc.Dispatch(r.Context(), req.toModel())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/dispatch/orders/"+res.Order.ID)
	writeJSON(h.logger, w, r, http.StatusCreated, dispatchResultToResponse(res))
}

// Decide handles POST /dispatch/decision.
func (h *DispatchHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if strings.TrimSpace(req.OrderID) == "" || req.CourierID <= 0 || !req.Decision.Valid() {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid decision")
		return
	}

	res, err := h.uc.Decide(r.Context(), domainDecision(req))
	switch {
	case err == nil, errors.Is(err, apperr.ErrCandidatesExhausted):
		writeJSON(h.logger, w, r, http.StatusOK, outcomeToResponse(res))
	default:
		h.fail(w, r, err)
	}
}

// Cancel handles POST /dispatch/orders/{orderID}/cancel.
func (h *DispatchHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	res, err := h.uc.Cancel(r.Context(), orderID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, outcomeToResponse(res))
}

// Complete handles POST /dispatch/orders/{orderID}/complete.
func (h *DispatchHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.CourierID <= 0 {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid courier_id")
		return
	}

	res, err := h.uc.Complete(r.Context(), chi.URLParam(r, "orderID"), req.CourierID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, outcomeToResponse(res))
}

// Get handles GET /dispatch/orders/{orderID}.
func (h *DispatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.uc.Lookup(chi.URLParam(r, "orderID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, assignmentToResponse(a))
}

func (h *DispatchHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.ErrNoCandidates):
		writeError(h.logger, w, r, http.StatusNotFound, apperr.ErrNoCandidates.Error())
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "order not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "conflict")
	default:
		h.logger.Error("dispatch request failed",
			logx.String("request_id", reqID(r.Context())),
			logx.String("path", r.URL.Path),
			logx.Any("err", err),
		)
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
