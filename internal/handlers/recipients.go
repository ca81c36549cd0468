package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"label-scanner/internal/database"
	"label-scanner/internal/directory"
	"label-scanner/internal/parser"
)

// RecipientHandler handles HTTP requests for the recipient directory
type RecipientHandler struct {
	db      *database.DB
	dir     *directory.Directory
	matcher *parser.Matcher
}

// NewRecipientHandler creates a new recipient handler. Match queries run
// against the startup directory snapshot; GetRecipients reads the table
// directly so the listing reflects rows added since startup.
func NewRecipientHandler(db *database.DB, dir *directory.Directory) *RecipientHandler {
	return &RecipientHandler{
		db:      db,
		dir:     dir,
		matcher: parser.NewMatcher(nil),
	}
}

// GetRecipients handles GET /api/recipients
func (h *RecipientHandler) GetRecipients(w http.ResponseWriter, r *http.Request) {
	recipients, err := h.db.Recipients.GetAll()
	if err != nil {
		log.Printf("ERROR: Failed to get recipients: %v", err)
		http.Error(w, fmt.Sprintf("Failed to get recipients: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(recipients)
}

// MatchQuery handles GET /api/recipients/matches?q=. It ranks directory
// entries against the query text, best match first.
func (h *RecipientHandler) MatchQuery(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		http.Error(w, "Missing query parameter q", http.StatusBadRequest)
		return
	}

	candidates := h.matcher.RankCandidates(query, h.dir.Names())
	if candidates == nil {
		candidates = []parser.MatchCandidate{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(candidates)
}
