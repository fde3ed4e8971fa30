package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/offload-api/internal/api/shared"
	"github.com/phrazzld/offload-api/internal/domain"
)

// idParam is the path parameter holding the entity id.
const idParam = "id"

// handlePersonID parses the person id from the path. On failure it writes a
// 400 response and returns false.
func handlePersonID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (domain.PersonID, bool) {
	id, err := domain.NewPersonID(chi.URLParam(r, idParam))
	if err != nil {
		log.Debug("invalid person id in path", slog.String("id", chi.URLParam(r, idParam)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return domain.PersonID{}, false
	}
	return id, true
}

// handleProductID parses the product id from the path. On failure it writes a
// 400 response and returns false.
func handleProductID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (domain.ProductID, bool) {
	id, err := domain.NewProductID(chi.URLParam(r, idParam))
	if err != nil {
		log.Debug("invalid product id in path", slog.String("id", chi.URLParam(r, idParam)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return domain.ProductID{}, false
	}
	return id, true
}

// decodeAndValidate reads the JSON body into req and validates it. On
// failure it writes a 400 response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := shared.DecodeJSON(w, r, req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// respondWithServiceError maps err to a status code and safe message.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}
