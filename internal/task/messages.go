package task

import (
	"github.com/google/uuid"

	"github.com/phrazzld/offload-api/internal/domain"
)

// Op names the store command a message asks for.
type Op string

const (
	OpGet  Op = "get"
	OpSave Op = "save"
)

// PersonMessage asks the persons worker to load or save a person.
type PersonMessage struct {
	ID       uuid.UUID
	Op       Op
	PersonID domain.PersonID
	Person   *domain.Person
	Reply    *Reply[*domain.Person]
}

// NewGetPerson builds a message that loads the person with id.
func NewGetPerson(id domain.PersonID) PersonMessage {
	return PersonMessage{
		ID:       uuid.New(),
		Op:       OpGet,
		PersonID: id,
		Reply:    NewReply[*domain.Person](),
	}
}

// NewSavePerson builds a message that upserts person.
func NewSavePerson(person *domain.Person) PersonMessage {
	return PersonMessage{
		ID:       uuid.New(),
		Op:       OpSave,
		PersonID: person.ID,
		Person:   person,
		Reply:    NewReply[*domain.Person](),
	}
}

// ProductMessage asks the products worker to load or save a product.
type ProductMessage struct {
	ID        uuid.UUID
	Op        Op
	ProductID domain.ProductID
	Product   *domain.Product
	Reply     *Reply[*domain.Product]
}

// NewGetProduct builds a message that loads the product with id.
func NewGetProduct(id domain.ProductID) ProductMessage {
	return ProductMessage{
		ID:        uuid.New(),
		Op:        OpGet,
		ProductID: id,
		Reply:     NewReply[*domain.Product](),
	}
}

// NewSaveProduct builds a message that upserts product.
func NewSaveProduct(product *domain.Product) ProductMessage {
	return ProductMessage{
		ID:        uuid.New(),
		Op:        OpSave,
		ProductID: product.ID,
		Product:   product,
		Reply:     NewReply[*domain.Product](),
	}
}
