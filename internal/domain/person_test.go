package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNewPersonID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "an id", false},
		{"empty", "", true},
		{"blank", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewPersonID(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrNotAnID) {
					t.Fatalf("Expected ErrNotAnID, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if id.String() != tt.input {
				t.Errorf("Expected id %q, got %q", tt.input, id.String())
			}
		})
	}
}

func TestNewPerson(t *testing.T) {
	id, _ := NewPersonID("an id")

	person, err := NewPerson(id, "Some Name")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if person.Name != "Some Name" {
		t.Errorf("Expected name %q, got %q", "Some Name", person.Name)
	}

	_, err = NewPerson(id, " ")
	if !errors.Is(err, ErrInvalidPerson) {
		t.Errorf("Expected ErrInvalidPerson for blank name, got %v", err)
	}

	_, err = NewPerson(PersonID{}, "Some Name")
	if !errors.Is(err, ErrInvalidPerson) || !errors.Is(err, ErrNotAnID) {
		t.Errorf("Expected ErrInvalidPerson wrapping ErrNotAnID, got %v", err)
	}
}

func TestPerson_JSON(t *testing.T) {
	id, _ := NewPersonID("an id")
	person := Person{ID: id, Name: "Some Name"}

	data, err := json.Marshal(person)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	expected := `{"id":"an id","name":"Some Name"}`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}

	var decoded Person
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if decoded != person {
		t.Errorf("Expected %+v, got %+v", person, decoded)
	}
}

func TestPerson_JSONRejectsEmptyID(t *testing.T) {
	var decoded Person
	err := json.Unmarshal([]byte(`{"id":"","name":"Some Name"}`), &decoded)
	if !errors.Is(err, ErrNotAnID) {
		t.Errorf("Expected ErrNotAnID, got %v", err)
	}
}
