package page

import (
	"sort"
	"strings"

	"livestock-records/internal/domain/breeds"
	"livestock-records/internal/domain/medicines"
	"livestock-records/internal/domain/tags"
	"livestock-records/internal/domain/users"
	"livestock-records/internal/domain/vendors"
	"livestock-records/internal/platform/validation"

	"github.com/go-playground/validator/v10"
)

// FieldErrors mapea campo -> mensaje. Se devuelve antes de enviar cualquier request.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

const msgRequired = "This field is required."

// form valida los tags `form`: las reglas del cliente, más estrictas que las del servidor.
var form = validation.New("form", map[string]validator.Func{
	"strongpassword": func(fl validator.FieldLevel) bool { return strongPassword(fl.Field().String()) },
})

// messages por "campo.regla" o por campo; el resto usa msgRequired.
var messages = map[string]string{
	"availability":      "Select Yes or No.",
	"rating":            "Rating must be between 0 and 5.",
	"dateOfAcquiring":   "Use a date in YYYY-MM-DD format.",
	"status":            "Select Available or Used.",
	"email.notblank":    "Please enter an email.",
	"email.email":       "Please enter a valid email.",
	"password":          passwordRule,
	"password.required": "Please enter a password.",
	"role":              "Please select a role.",
}

func check(v any) error {
	err := form.Struct(v)
	fails := validation.Failures(err)
	if fails == nil {
		return err
	}
	errs := FieldErrors{}
	for _, f := range fails {
		errs[f.Field()] = messageFor(f.Field(), f.Tag())
	}
	return errs
}

func messageFor(field, tag string) string {
	if m, ok := messages[field+"."+tag]; ok {
		return m
	}
	if m, ok := messages[field]; ok {
		return m
	}
	return msgRequired
}

func ValidateBreed(b breeds.Breed) error { return check(b) }

func ValidateMedicine(m medicines.Medicine) error { return check(m) }

func ValidateVendor(v vendors.Vendor) error { return check(v) }

func ValidateTag(t tags.Tag) error { return check(t) }

const passwordRule = "Password must be at least 8 characters long, contain at least 1 uppercase letter, 1 number, and 1 special character."

// passwordSymbols son los símbolos que acepta el formulario de alta.
const passwordSymbols = "!@#$%^&*"

// ValidateSignUp aplica las reglas del formulario de registro.
func ValidateSignUp(in users.RegisterInput) error { return check(in) }

func ValidateSignIn(in users.SignInInput) error { return check(in) }

func strongPassword(pw string) bool {
	if len(pw) < users.MinPasswordLength {
		return false
	}
	var upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return upper && digit && symbol
}
