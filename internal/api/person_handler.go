package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/offload-api/internal/api/shared"
	"github.com/phrazzld/offload-api/internal/domain"
	"github.com/phrazzld/offload-api/internal/platform/logger"
)

// PersonService loads and saves people. *task.Runner implements it.
type PersonService interface {
	GetPerson(ctx context.Context, id domain.PersonID) (*domain.Person, error)
	SavePerson(ctx context.Context, person *domain.Person) (*domain.Person, error)
}

// SavePersonRequest is the body of POST /person/{id}.
type SavePersonRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// PersonHandler handles person-related HTTP requests
type PersonHandler struct {
	service PersonService
	logger  *slog.Logger
}

// NewPersonHandler creates a new PersonHandler
func NewPersonHandler(service PersonService, logger *slog.Logger) *PersonHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for PersonHandler")
	}

	return &PersonHandler{
		service: service,
		logger:  logger.With(slog.String("component", "person_handler")),
	}
}

// GetPerson handles GET /person/{id}.
func (h *PersonHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePersonID(w, r, log)
	if !ok {
		return
	}

	person, err := h.service.GetPerson(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	log.Debug("retrieved person", slog.String("person_id", id.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, person)
}

// SavePerson handles POST /person/{id}. The person is created or replaced.
func (h *PersonHandler) SavePerson(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePersonID(w, r, log)
	if !ok {
		return
	}

	var req SavePersonRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	person, err := domain.NewPerson(id, req.Name)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	saved, err := h.service.SavePerson(r.Context(), person)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	log.Debug("saved person", slog.String("person_id", id.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, saved)
}
