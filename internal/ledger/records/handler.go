package records

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/leanledger/leanledger/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ledgerID, ok := h.ledgerID(w, r)
	if !ok {
		return
	}
	views, err := h.service.List(r.Context(), ledgerID)
	if err != nil {
		h.logger.Error("list records", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, views)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ledgerID, ok := h.ledgerID(w, r)
	if !ok {
		return
	}
	recordID, ok := h.recordID(w, r)
	if !ok {
		return
	}
	view, err := h.service.Get(r.Context(), ledgerID, recordID)
	if err != nil {
		h.logger.Error("get record", slog.Int64("record_id", recordID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ledgerID, ok := h.ledgerID(w, r)
	if !ok {
		return
	}
	var req CreateRecordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	view, err := h.service.Create(r.Context(), ledgerID, req)
	if err != nil {
		h.logger.Error("create record", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, view)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ledgerID, ok := h.ledgerID(w, r)
	if !ok {
		return
	}
	recordID, ok := h.recordID(w, r)
	if !ok {
		return
	}
	var req UpdateRecordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	view, err := h.service.Update(r.Context(), ledgerID, recordID, req)
	if err != nil {
		h.logger.Error("update record", slog.Int64("record_id", recordID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ledgerID, ok := h.ledgerID(w, r)
	if !ok {
		return
	}
	recordID, ok := h.recordID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), ledgerID, recordID); err != nil {
		h.logger.Error("delete record", slog.Int64("record_id", recordID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ledgerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "ledgerID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ledger ID", "")
		return 0, false
	}
	return id, true
}

func (h *Handler) recordID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "recordID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid record ID", "")
		return 0, false
	}
	return id, true
}
