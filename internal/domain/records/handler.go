package records

import (
	"encoding/json"
	"errors"
	"net/http"

	"livestock-records/internal/store"

	"github.com/go-chi/chi/v5"
)

// IDParam es el nombre del parámetro de ruta con el identificador de almacenamiento.
const IDParam = "id"

// Mount registra las cuatro rutas estándar de un Kind bajo r.
// Los paquetes de entidad lo usan pasando sus propios handlers (documentados para swag).
func Mount(r chi.Router, create, list, update, remove http.HandlerFunc) {
	r.Post("/", create)
	r.Get("/", list)
	r.Put("/{"+IDParam+"}", update)
	r.Delete("/{"+IDParam+"}", remove)
}

func CreateHandler[T Record[T]](svc *Service[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rec T
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			WriteJSON(w, http.StatusBadRequest, MessageResponse{Message: MsgInvalidJSON})
			return
		}

		if _, err := svc.Create(r.Context(), rec); err != nil {
			status, body := svc.failure(err, svc.kind.ExposeInsertError)
			if status >= http.StatusInternalServerError {
				svc.log.Error("insert failed", map[string]any{"err": err})
			}
			WriteJSON(w, status, body)
			return
		}

		WriteJSON(w, http.StatusCreated, MessageResponse{Message: svc.kind.Created})
	}
}

func ListHandler[T Record[T]](svc *Service[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			svc.log.Error("list failed", map[string]any{"err": err})
			WriteJSON(w, http.StatusInternalServerError, svc.kind.ListFailure)
			return
		}
		WriteJSON(w, http.StatusOK, items)
	}
}

func UpdateHandler[T Record[T]](svc *Service[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rec T
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			WriteJSON(w, http.StatusBadRequest, MessageResponse{Message: MsgInvalidJSON})
			return
		}

		id := chi.URLParam(r, IDParam)
		matched, err := svc.Update(r.Context(), id, rec)
		if err != nil {
			status, body := svc.failure(err, false)
			if status >= http.StatusInternalServerError {
				svc.log.Error("update failed", map[string]any{"id": id, "err": err})
			}
			WriteJSON(w, status, body)
			return
		}
		if !matched {
			svc.log.Debug("update matched no document", map[string]any{"id": id})
		}

		WriteJSON(w, http.StatusOK, MessageResponse{Message: svc.kind.Updated})
	}
}

func DeleteHandler[T Record[T]](svc *Service[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, IDParam)
		deleted, err := svc.Delete(r.Context(), id)
		if err != nil {
			svc.log.Error("delete failed", map[string]any{"id": id, "err": err})
			WriteJSON(w, http.StatusInternalServerError, MessageResponse{Message: MsgInternal})
			return
		}
		if !deleted {
			svc.log.Debug("delete matched no document", map[string]any{"id": id})
		}

		WriteJSON(w, http.StatusOK, MessageResponse{Message: svc.kind.Deleted})
	}
}

// failure traduce errores del servicio a status + cuerpo.
func (s *Service[T]) failure(err error, expose bool) (int, any) {
	switch {
	case errors.Is(err, ErrMissingFields):
		return http.StatusBadRequest, MessageResponse{Message: MsgAllFieldsRequired}
	case errors.Is(err, store.ErrDuplicateKey):
		return s.kind.DuplicateStatus, MessageResponse{Message: s.kind.DuplicateMessage}
	case expose:
		return http.StatusInternalServerError, MessageResponse{Message: err.Error()}
	default:
		return http.StatusInternalServerError, MessageResponse{Message: MsgInternal}
	}
}

// WriteJSON escribe v como JSON con el status dado.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
