package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/offload-api/internal/domain"
	"github.com/phrazzld/offload-api/internal/task"
)

// MockPersonService is a mock implementation of PersonService for testing
type MockPersonService struct {
	GetPersonFn  func(ctx context.Context, id domain.PersonID) (*domain.Person, error)
	SavePersonFn func(ctx context.Context, person *domain.Person) (*domain.Person, error)
}

// GetPerson implements PersonService
func (m *MockPersonService) GetPerson(ctx context.Context, id domain.PersonID) (*domain.Person, error) {
	if m.GetPersonFn != nil {
		return m.GetPersonFn(ctx, id)
	}
	return nil, nil
}

// SavePerson implements PersonService
func (m *MockPersonService) SavePerson(ctx context.Context, person *domain.Person) (*domain.Person, error) {
	if m.SavePersonFn != nil {
		return m.SavePersonFn(ctx, person)
	}
	return person, nil
}

// MockProductService is a mock implementation of ProductService for testing
type MockProductService struct {
	GetProductFn  func(ctx context.Context, id domain.ProductID) (*domain.Product, error)
	SaveProductFn func(ctx context.Context, product *domain.Product) (*domain.Product, error)
}

// GetProduct implements ProductService
func (m *MockProductService) GetProduct(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	if m.GetProductFn != nil {
		return m.GetProductFn(ctx, id)
	}
	return nil, nil
}

// SaveProduct implements ProductService
func (m *MockProductService) SaveProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if m.SaveProductFn != nil {
		return m.SaveProductFn(ctx, product)
	}
	return product, nil
}

type staticStatus task.Status

func (s staticStatus) Status() task.Status {
	return task.Status(s)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRouter mounts the handlers on the same paths the server uses.
func newTestRouter(persons PersonService, products ProductService) http.Handler {
	ph := NewPersonHandler(persons, testLogger())
	pr := NewProductHandler(products, testLogger())

	r := chi.NewRouter()
	r.Get("/person/{id}", ph.GetPerson)
	r.Post("/person/{id}", ph.SavePerson)
	r.Get("/products/{id}", pr.GetProduct)
	r.Post("/products/{id}", pr.SaveProduct)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
