package accounts

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
	view, err := h.service.List(r.Context(), ledgerID)
	if err != nil {
		h.logger.Error("list accounts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ledgerID, ok := h.ledgerID(w, r)
	if !ok {
		return
	}
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}
	view, err := h.service.Get(r.Context(), ledgerID, accountID)
	if err != nil {
		h.logger.Error("get account", slog.Int64("account_id", accountID), slog.Any("error", err))
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
	var req CreateAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	view, err := h.service.Create(r.Context(), ledgerID, req)
	if err != nil {
		h.logger.Error("create account", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, view)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ledgerID, ok := h.ledgerID(w, r)
	if !ok {
		return
	}
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), ledgerID, accountID); err != nil {
		h.logger.Error("delete account", slog.Int64("account_id", accountID), slog.Any("error", err))
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

func (h *Handler) accountID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "accountID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid account ID", "")
		return 0, false
	}
	return id, true
}
