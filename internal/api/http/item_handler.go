package http

import (
	"net/http"

	"muontra/internal/domain"
	"muontra/internal/service"
)

type ItemHandler struct {
	itemSvc service.ItemService
}

func NewItemHandler(itemSvc service.ItemService) *ItemHandler {
	return &ItemHandler{itemSvc: itemSvc}
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemSvc.ListItems(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// ListByOwner takes the owner id as a bare JSON number body.
func (h *ItemHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, err := bodyID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.itemSvc.ListByOwner(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "idVatDung")
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.itemSvc.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var item domain.Item
	if err := decodeJSON(r, &item); err != nil {
		writeError(w, r, err)
		return
	}
	item.ID = 0
	if err := h.itemSvc.CreateItem(r.Context(), ActorFromContext(r.Context()), &item); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, "item created")
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	var item domain.Item
	if err := decodeJSON(r, &item); err != nil {
		writeError(w, r, err)
		return
	}
	if item.ID <= 0 {
		writeError(w, r, badRequest("missing id"))
		return
	}
	if err := h.itemSvc.UpdateItem(r.Context(), ActorFromContext(r.Context()), &item); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, "item updated")
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := bodyID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.itemSvc.DeleteItem(r.Context(), ActorFromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, "item deleted")
}
