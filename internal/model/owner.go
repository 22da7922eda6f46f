package model

import (
	"fmt"

	"github.com/Basiiii/SmartStay-sub000/internal/validate"
)

// Owner represents a property owner. The set of accommodation ids an
// owner holds is maintained by the owner repository so that creating
// and deleting accommodations keeps both sides of the association in
// step.
//
// Fields:
//
//	ID    – unique owner identifier.
//	Name  – full name.
//	Email – contact email address.
//	Phone – contact phone number in international format.
type Owner struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// NewOwner builds an owner after validating every field.
func NewOwner(id uint64, name, email, phone string) (*Owner, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: zero owner id", ErrInvalidID)
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
	return &Owner{ID: id, Name: name, Email: email, Phone: phone}, nil
}
