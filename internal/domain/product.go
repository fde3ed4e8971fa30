package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxProductIDLength is the longest product id accepted.
const MaxProductIDLength = 32

// ProductID identifies a catalogue product: non-blank, at most 32 characters.
type ProductID struct {
	value string
}

// NewProductID validates s and returns it as a ProductID.
func NewProductID(s string) (ProductID, error) {
	if strings.TrimSpace(s) == "" || utf8.RuneCountInString(s) > MaxProductIDLength {
		return ProductID{}, ErrNotAnID
	}
	return ProductID{value: s}, nil
}

// String returns the raw id.
func (id ProductID) String() string {
	return id.value
}

// IsZero reports whether id is the zero value.
func (id ProductID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON encodes the id as a JSON string.
func (id ProductID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

// UnmarshalJSON decodes a JSON string, rejecting invalid ids.
func (id *ProductID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to parse id: %w", err)
	}

	parsed, err := NewProductID(s)
	if err != nil {
		return fmt.Errorf("failed to parse id: %w", err)
	}

	*id = parsed
	return nil
}

// Price is an amount in dollars held as whole cents.
type Price struct {
	cents int64
}

// NewPrice rounds dollars to the nearest cent. The result must be positive.
func NewPrice(dollars float64) (Price, error) {
	if math.IsNaN(dollars) || math.IsInf(dollars, 0) {
		return Price{}, ErrInvalidPrice
	}

	cents := math.Round(dollars * 100)
	if cents <= 0 || cents > math.MaxInt64 {
		return Price{}, ErrInvalidPrice
	}

	return Price{cents: int64(cents)}, nil
}

// PriceFromCents builds a Price from a whole number of cents.
func PriceFromCents(cents int64) (Price, error) {
	if cents <= 0 {
		return Price{}, ErrInvalidPrice
	}
	return Price{cents: cents}, nil
}

// Cents returns the price in cents.
func (p Price) Cents() int64 {
	return p.cents
}

// Dollars returns the price in dollars.
func (p Price) Dollars() float64 {
	return float64(p.cents) / 100
}

// String formats the price with two decimal places.
func (p Price) String() string {
	return strconv.FormatFloat(p.Dollars(), 'f', 2, 64)
}

// MarshalJSON encodes the price as a number with two decimal places.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalJSON decodes a JSON number into a validated price.
func (p *Price) UnmarshalJSON(data []byte) error {
	var dollars float64
	if err := json.Unmarshal(data, &dollars); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPrice, err)
	}

	parsed, err := NewPrice(dollars)
	if err != nil {
		return err
	}

	*p = parsed
	return nil
}

// Product is an entry in the catalogue.
type Product struct {
	ID      ProductID `json:"id"`
	Title   string    `json:"title"`
	Details string    `json:"details"`
	Price   Price     `json:"price"`
}

// NewProduct creates a Product, returning an error if it is not valid.
func NewProduct(id ProductID, title, details string, price Price) (*Product, error) {
	p := &Product{
		ID:      id,
		Title:   title,
		Details: details,
		Price:   price,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks the product's invariants.
func (p *Product) Validate() error {
	if p.ID.IsZero() {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrNotAnID)
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidProduct)
	}
	if p.Price.cents <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrInvalidPrice)
	}
	return nil
}
