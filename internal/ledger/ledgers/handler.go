package ledgers

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
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid user ID", "")
		return
	}
	views, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("list ledgers", slog.Any("error", err))
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
	view, err := h.service.Get(r.Context(), ledgerID)
	if err != nil {
		h.logger.Error("get ledger", slog.Int64("ledger_id", ledgerID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLedgerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	view, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create ledger", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, view)
}

func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	ledgerID, ok := h.ledgerID(w, r)
	if !ok {
		return
	}
	var req RenameLedgerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	view, err := h.service.Rename(r.Context(), ledgerID, req)
	if err != nil {
		h.logger.Error("rename ledger", slog.Int64("ledger_id", ledgerID), slog.Any("error", err))
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
	if err := h.service.Delete(r.Context(), ledgerID); err != nil {
		h.logger.Error("delete ledger", slog.Int64("ledger_id", ledgerID), slog.Any("error", err))
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
