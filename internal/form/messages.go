package form

import (
	"fmt"

	"github.com/wanderlust-cottage/booking-api/internal/rules"
)

// Field names as they appear in FieldErrors
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldGuests   = "guests"
	FieldCheckIn  = "checkIn"
	FieldCheckOut = "checkOut"
	FieldForm     = "form"
)

const (
	tagNotPast      = "not_past"
	tagAfterCheckIn = "after_check_in"
)

const (
	msgFormInvalid = "Formularul nu poate fi validat."

	// MsgSuccess is shown after the endpoint accepted the inquiry
	MsgSuccess = "Cererea de rezervare a fost trimisă cu succes! Vă vom contacta în maximum 24 de ore."

	// MsgSubmitFailed is shown on transport errors and non-2xx responses
	MsgSubmitFailed = "Cererea nu a putut fi trimisă. Vă rugăm încercați din nou sau scrieți-ne direct pe email."
)

// messageFor maps a failed rule to the text shown under the field
func messageFor(field, tag string) string {
	switch field {
	case FieldName:
		if tag == "notblank" {
			return "Numele este obligatoriu."
		}
		return fmt.Sprintf("Numele trebuie să conțină cel puțin %d caractere.", rules.MinNameLength)
	case FieldEmail:
		if tag == "notblank" {
			return "Adresa de email este obligatorie."
		}
		return "Adresa de email nu este validă."
	case FieldPhone:
		if tag == "notblank" {
			return "Numărul de telefon este obligatoriu."
		}
		return "Numărul de telefon nu este valid."
	case FieldGuests:
		return fmt.Sprintf("Numărul de oaspeți trebuie să fie între %d și %d.", rules.MinGuests, rules.MaxGuests)
	case FieldCheckIn:
		switch tag {
		case "notblank":
			return "Data de check-in este obligatorie."
		case tagNotPast:
			return "Data de check-in nu poate fi în trecut."
		}
		return "Data de check-in nu este validă."
	case FieldCheckOut:
		switch tag {
		case "notblank":
			return "Data de check-out este obligatorie."
		case tagAfterCheckIn:
			return "Data de check-out trebuie să fie după check-in."
		}
		return "Data de check-out nu este validă."
	default:
		return field + " nu este valid."
	}
}
