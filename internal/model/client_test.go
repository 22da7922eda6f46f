package model

import (
	"errors"
	"testing"

	"github.com/Basiiii/SmartStay-sub000/internal/validate"
)

func TestNewClientValidation(t *testing.T) {
	client, err := NewClient(1, "Ana Costa", "ana@example.com", "+351912345678")
	if err != nil {
		t.Fatalf("valid client rejected: %v", err)
	}
	if client.ID != 1 || client.Name != "Ana Costa" {
		t.Fatalf("client fields lost: %+v", client)
	}

	cases := []struct {
		name string
		run  func() (*Client, error)
		want error
	}{
		{"zero id", func() (*Client, error) {
			return NewClient(0, "Ana Costa", "ana@example.com", "+351912345678")
		}, ErrInvalidID},
		{"short name", func() (*Client, error) {
			return NewClient(1, "A", "ana@example.com", "+351912345678")
		}, validate.ErrInvalid},
		{"bad email", func() (*Client, error) {
			return NewClient(1, "Ana Costa", "not-an-email", "+351912345678")
		}, validate.ErrInvalid},
		{"bad phone", func() (*Client, error) {
			return NewClient(1, "Ana Costa", "ana@example.com", "912345678")
		}, validate.ErrInvalid},
	}
	for _, tc := range cases {
		if _, err := tc.run(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestNewOwnerValidation(t *testing.T) {
	owner, err := NewOwner(1, "Bruno Silva", "bruno@example.com", "+351961112222")
	if err != nil {
		t.Fatalf("valid owner rejected: %v", err)
	}
	if owner.ID != 1 || owner.Email != "bruno@example.com" {
		t.Fatalf("owner fields lost: %+v", owner)
	}

	if _, err := NewOwner(0, "Bruno Silva", "bruno@example.com", "+351961112222"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("zero id must fail, got %v", err)
	}
	if _, err := NewOwner(1, "Bruno Silva", "bruno@", "+351961112222"); !errors.Is(err, validate.ErrInvalid) {
		t.Fatalf("bad email must fail, got %v", err)
	}
}
