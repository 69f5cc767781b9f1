package users

import (
	"errors"
	"fmt"
	"strings"

	"livestock-records/internal/platform/validation"
	"livestock-records/internal/store"
)

const (
	Collection = "Users"
	EmailField = "email"

	MinPasswordLength = 8
	// MaxPasswordBytes es lo que bcrypt llega a leer; el resto se ignora.
	MaxPasswordBytes = 72
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Role de un usuario.
// @Enum Admin, Manager, User
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
	RoleUser    Role = "User"
)

// User es lo que se devuelve al cliente: nunca incluye el hash.
type User struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// account es la fila completa guardada en Users.
type account struct {
	User
	PasswordHash string
}

func (a account) document() store.Document {
	return store.Document{
		"email":    a.Email,
		"password": a.PasswordHash,
		"role":     string(a.Role),
	}
}

func accountFromDocument(doc store.Document) account {
	return account{
		User: User{
			ID:    doc.ID(),
			Email: doc.String("email"),
			Role:  Role(doc.String("role")),
		},
		PasswordHash: doc.String("password"),
	}
}

// RegisterInput: el orden de los campos es el orden de la lista de errores.
type RegisterInput struct {
	Password string `json:"password" validate:"min=8" form:"strongpassword"`
	Email    string `json:"email" validate:"required,email" form:"notblank,email"`
	Role     Role   `json:"role" validate:"oneof=Admin Manager User" form:"oneof=Admin Manager User"`
}

type SignInInput struct {
	Email    string `json:"email" validate:"required,email" form:"notblank"`
	Password string `json:"password" validate:"min=8" form:"required"`
}

// FieldError describe un campo rechazado, con la forma {type,value,msg,path,location}.
type FieldError struct {
	Type     string `json:"type"`
	Value    any    `json:"value,omitempty"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

// ValidationError agrupa los campos rechazados de un request.
type ValidationError struct {
	Fields []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	paths := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		paths = append(paths, f.Path)
	}
	return fmt.Sprintf("invalid fields: %s", strings.Join(paths, ", "))
}

// validationError traduce los rechazos del validador; password nunca se devuelve.
func validationError(err error) error {
	fails := validation.Failures(err)
	if fails == nil {
		return err
	}
	verr := &ValidationError{}
	for _, f := range fails {
		var value any
		if f.Field() != "password" {
			value = f.Value()
		}
		verr.Fields = append(verr.Fields, FieldError{
			Type:     "field",
			Value:    value,
			Msg:      "Invalid value",
			Path:     f.Field(),
			Location: "body",
		})
	}
	return verr
}

// Validate: password >= 8, email válido y rol conocido.
func (in RegisterInput) Validate() error {
	if err := validation.Request.Struct(in); err != nil {
		return validationError(err)
	}
	return nil
}

func (in SignInInput) Validate() error {
	if err := validation.Request.Struct(in); err != nil {
		return validationError(err)
	}
	return nil
}

// passwordBytes recorta a MaxPasswordBytes: bcrypt rechaza contraseñas más largas.
func passwordBytes(pw string) []byte {
	b := []byte(pw)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}
