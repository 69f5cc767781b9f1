// Package counters genera secuencias enteras con nombre sobre la colección counters del store.
// Ningún registro las usa para su id: quedan disponibles para numeración propia (p.ej. lotes de caravanas).
package counters

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"livestock-records/internal/domain/records"
	"livestock-records/internal/store"

	"github.com/go-chi/chi/v5"
)

var ErrInvalidName = errors.New("invalid sequence name")

type Service struct {
	st store.Store
}

func NewService(st store.Store) *Service {
	return &Service{st: st}
}

// Next incrementa atómicamente la secuencia name y devuelve el nuevo valor (la primera llamada devuelve 1).
func (s *Service) Next(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, "/\x00") {
		return 0, ErrInvalidName
	}
	return s.st.NextSequence(ctx, name)
}

type NextResponse struct {
	Name  string `json:"name"`
	Value int64  `json:"sequence_value"`
}

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/counters/{name}/next", nextHandler(svc))
}

// @Summary Siguiente valor de una secuencia
// @Description Incrementa atómicamente el contador y devuelve el valor nuevo.
// @Tags counters
// @Produce json
// @Param name path string true "Nombre de la secuencia"
// @Success 200 {object} NextResponse
// @Failure 400 {object} records.MessageResponse
// @Failure 500 {object} records.MessageResponse
// @Router /counters/{name}/next [post]
func nextHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		n, err := svc.Next(r.Context(), name)
		if errors.Is(err, ErrInvalidName) {
			records.WriteJSON(w, http.StatusBadRequest, records.MessageResponse{Message: err.Error()})
			return
		}
		if err != nil {
			records.WriteJSON(w, http.StatusInternalServerError, records.MessageResponse{Message: records.MsgInternal})
			return
		}
		records.WriteJSON(w, http.StatusOK, NextResponse{Name: strings.TrimSpace(name), Value: n})
	}
}
