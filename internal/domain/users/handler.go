package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"livestock-records/internal/domain/records"

	"github.com/go-chi/chi/v5"
)

const (
	MsgEmailTaken         = "A user with this email already exists"
	MsgInvalidCredentials = "Invalid credentials"
	MsgSignedIn           = "User SignIn"
)

// CredentialsError es el cuerpo genérico de un sign-in rechazado.
type CredentialsError struct {
	Msg string `json:"msg"`
}

type SignInResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/users", func(ur chi.Router) {
		ur.Post("/register", registerHandler(svc))
		ur.Post("/signin", signInHandler(svc))

		ur.Post("/login", stub(MsgSignedIn))
		ur.Get("/profile", stub("Get User Profile"))
		ur.Put("/profile", stub("Update User Profile"))
		ur.Delete("/profile", stub("Delete User Profile"))
		ur.Get("/", stub("Get All Users"))
	})
}

// @Summary Registrar usuario
// @Description Valida password (>= 8), email y rol (Admin/Manager/User). Guarda el hash bcrypt y devuelve el usuario sin password.
// @Tags users
// @Accept json
// @Produce json
// @Param payload body RegisterInput true "email, password, role"
// @Success 201 {object} User
// @Failure 400 {object} ValidationError
// @Failure 400 {object} records.MessageResponse "A user with this email already exists"
// @Failure 500 {object} records.MessageResponse
// @Router /users/register [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in RegisterInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			records.WriteJSON(w, http.StatusBadRequest, records.MessageResponse{Message: records.MsgInvalidJSON})
			return
		}

		u, err := svc.Register(r.Context(), in)
		if err != nil {
			var verr *ValidationError
			switch {
			case errors.As(err, &verr):
				records.WriteJSON(w, http.StatusBadRequest, verr)
			case errors.Is(err, ErrEmailTaken):
				records.WriteJSON(w, http.StatusBadRequest, records.MessageResponse{Message: MsgEmailTaken})
			default:
				svc.log.Error("register failed", map[string]any{"err": err})
				records.WriteJSON(w, http.StatusInternalServerError, records.MessageResponse{Message: records.MsgInternal})
			}
			return
		}

		records.WriteJSON(w, http.StatusCreated, u)
	}
}

// @Summary Iniciar sesión
// @Description Verifica email y password contra el hash guardado. No emite token.
// @Tags users
// @Accept json
// @Produce json
// @Param payload body SignInInput true "email, password"
// @Success 200 {object} SignInResponse
// @Failure 400 {object} CredentialsError "Invalid credentials"
// @Failure 500 {string} string "Server error"
// @Router /users/signin [post]
func signInHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in SignInInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			records.WriteJSON(w, http.StatusBadRequest, records.MessageResponse{Message: records.MsgInvalidJSON})
			return
		}

		u, err := svc.SignIn(r.Context(), in)
		if err != nil {
			var verr *ValidationError
			switch {
			case errors.As(err, &verr):
				records.WriteJSON(w, http.StatusBadRequest, verr)
			case errors.Is(err, ErrInvalidCredentials):
				records.WriteJSON(w, http.StatusBadRequest, CredentialsError{Msg: MsgInvalidCredentials})
			default:
				svc.log.Error("signin failed", map[string]any{"err": err})
				http.Error(w, "Server error", http.StatusInternalServerError)
			}
			return
		}

		records.WriteJSON(w, http.StatusOK, SignInResponse{Message: MsgSignedIn, User: u})
	}
}

// stub responde un texto fijo: perfil y listado de usuarios no están implementados.
func stub(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(text))
	}
}
