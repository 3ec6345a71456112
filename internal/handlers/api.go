package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/woomsg/woomsg/internal/store"
)

// APIHandler exposes the generic table primitives as a raw REST surface:
// list a table, fetch a row by id, delete a row by id.
type APIHandler struct {
	Store store.Store
}

func (h *APIHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	table, ok := store.ParseTable(mux.Vars(r)["table"])
	if !ok {
		http.Error(w, "unknown table", http.StatusNotFound)
		return
	}

	records, err := h.Store.GetAll(table)
	if err != nil {
		respondError(w, err)
		return
	}
	if records == nil {
		records = []store.Record{}
	}
	respondJSON(w, http.StatusOK, records)
}

func (h *APIHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	table, ok := store.ParseTable(mux.Vars(r)["table"])
	if !ok {
		http.Error(w, "unknown table", http.StatusNotFound)
		return
	}

	record, found, err := h.Store.GetByID(table, pathInt(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	if !found {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	respondJSON(w, http.StatusOK, record)
}

func (h *APIHandler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	table, ok := store.ParseTable(mux.Vars(r)["table"])
	if !ok {
		http.Error(w, "unknown table", http.StatusNotFound)
		return
	}

	if err := h.Store.DeleteByID(table, pathInt(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
