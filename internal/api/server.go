package api

import (
	"encoding/json"
	"net/http"

	"github.com/pkruk/flashdeck/internal/errors"
	"github.com/pkruk/flashdeck/internal/services"
)

// Server wires the HTTP surface to the services.
type Server struct {
	Decks services.DeckService
	Study services.StudyService
	Ready func() error
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// decodeJSON parses the request body into v. A malformed body comes
// back as a BAD_REQUEST AppError ready for handleError.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	return nil
}
