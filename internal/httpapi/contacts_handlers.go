package httpapi

import (
	"database/sql"
	"net/http"

	"leadscout-engine/internal/store"
)

type ContactsHandler struct {
	DB *sql.DB
}

func (h ContactsHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := store.ListContacts(r.Context(), h.DB)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	if contacts == nil {
		contacts = []store.Contact{}
	}
	writeJSON(w, contacts)
}

func (h ContactsHandler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="contacts.csv"`)
	if err := store.ExportCSV(r.Context(), h.DB, w); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
}

func (h ContactsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := store.ClearContacts(r.Context(), h.DB); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}
