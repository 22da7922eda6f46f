package model

import (
	"fmt"

	"github.com/Basiiii/SmartStay-sub000/internal/validate"
)

// Client represents a guest who books rooms. Clients are plain records
// kept by the client repository; reservations reference them by id.
//
// Fields:
//
//	ID    – unique client identifier.
//	Name  – full name.
//	Email – contact email address.
//	Phone – contact phone number in international format.
type Client struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// NewClient builds a client after validating every field.
func NewClient(id uint64, name, email, phone string) (*Client, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: zero client id", ErrInvalidID)
	}
	if err := validate.Name(name); err != nil {
		return nil, err
	}
	if err := validate.Email(email); err != nil {
		return nil, err
	}
	if err := validate.Phone(phone); err != nil {
		return nil, err
	}
	return &Client{ID: id, Name: name, Email: email, Phone: phone}, nil
}
