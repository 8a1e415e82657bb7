package http

import (
	"net/http"

	"muontra/internal/domain"
	"muontra/internal/service"
)

type LoanHandler struct {
	loanSvc service.LoanService
}

func NewLoanHandler(loanSvc service.LoanService) *LoanHandler {
	return &LoanHandler{loanSvc: loanSvc}
}

// List serves both the current and the legacy ticket listing; legacy clients ignore vatDung.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.loanSvc.ListTickets(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (h *LoanHandler) ListByBorrower(w http.ResponseWriter, r *http.Request) {
	borrowerID, err := bodyID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tickets, err := h.loanSvc.ListByBorrower(r.Context(), borrowerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (h *LoanHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, err := bodyID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tickets, err := h.loanSvc.ListByOwner(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ticket, err := h.loanSvc.GetTicket(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.NewLoanTicket
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.loanSvc.CreateTicket(r.Context(), ActorFromContext(r.Context()), req); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, "loan ticket created")
}

func (h *LoanHandler) Update(w http.ResponseWriter, r *http.Request) {
	var upd domain.LoanTicketUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, r, err)
		return
	}
	if upd.ID <= 0 {
		writeError(w, r, badRequest("missing id"))
		return
	}
	if _, err := h.loanSvc.UpdateTicket(r.Context(), ActorFromContext(r.Context()), upd); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, "loan ticket updated")
}

func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := bodyID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.loanSvc.DeleteTicket(r.Context(), ActorFromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, "loan ticket deleted")
}
