// Package validate is the field validation contract shared by entity
// construction and mutation. Every rule lives here once, so a value
// that passed on create cannot be bypassed by a later setter, and the
// model layer never re-implements format checks.
package validate

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is the sentinel wrapped by every validation failure.
var ErrInvalid = errors.New("validation failed")

var v = validator.New()

// Name checks a person or property display name.
func Name(name string) error {
	return field("name", name, "required,min=2,max=100")
}

// Email checks a contact email address.
func Email(email string) error {
	return field("email", email, "required,email")
}

// Phone checks a contact phone number in E.164 international format.
func Phone(phone string) error {
	return field("phone", phone, "required,e164")
}

// Address checks a street address.
func Address(address string) error {
	return field("address", address, "required,min=5,max=200")
}

// NightlyPrice checks a room's price per night in cents. Zero is
// allowed so promotional rooms can be free; negative prices are not.
func NightlyPrice(cents int64) error {
	return field("nightly price", cents, "gte=0")
}

// AccommodationType checks a property classification.
func AccommodationType(accType string) error {
	return field("accommodation type", accType, "required,oneof=hotel apartment hostel guesthouse")
}

// RoomType checks a room classification.
func RoomType(roomType string) error {
	return field("room type", roomType, "required,oneof=single double suite family")
}

// PaymentMethod checks a payment method.
func PaymentMethod(method string) error {
	return field("payment method", method, "required,oneof=cash card transfer mbway")
}

// field runs value against the rule set and folds validator's error
// into ErrInvalid with the failing tag, so callers can match with
// errors.Is without knowing the validator library.
func field(name string, value any, rules string) error {
	err := v.Var(value, rules)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("%w: %s fails %q", ErrInvalid, name, verrs[0].Tag())
	}
	return fmt.Errorf("%w: %s: %v", ErrInvalid, name, err)
}
