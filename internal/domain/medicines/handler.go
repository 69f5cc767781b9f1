package medicines

import (
	"context"
	"net/http"

	"livestock-records/internal/domain/records"
	"livestock-records/internal/store"

	"github.com/go-chi/chi/v5"
)

type Service = records.Service[Medicine]

func NewService(ctx context.Context, st store.Store, deps records.Deps) (*Service, error) {
	return records.NewService[Medicine](ctx, st, Kind(), deps)
}

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/medicines", func(mr chi.Router) {
		records.Mount(mr,
			createMedicineHandler(svc),
			listMedicinesHandler(svc),
			updateMedicineHandler(svc),
			deleteMedicineHandler(svc),
		)
	})
}

// @Summary Crear medicamento
// @Tags medicines
// @Accept json
// @Produce json
// @Param payload body Medicine true "medicineId, medicineName, availability"
// @Success 201 {object} records.MessageResponse
// @Failure 400 {object} records.MessageResponse "All fields are required. / Medicine ID already exists."
// @Failure 500 {object} records.MessageResponse
// @Router /medicines [post]
func createMedicineHandler(svc *Service) http.HandlerFunc {
	return records.CreateHandler(svc)
}

// @Summary Listar medicamentos
// @Tags medicines
// @Produce json
// @Success 200 {array} Medicine
// @Failure 500 {object} records.MessageResponse
// @Router /medicines [get]
func listMedicinesHandler(svc *Service) http.HandlerFunc {
	return records.ListHandler(svc)
}

// @Summary Actualizar medicamento
// @Tags medicines
// @Accept json
// @Produce json
// @Param id path string true "Identificador de almacenamiento"
// @Param payload body Medicine true "medicineId, medicineName, availability"
// @Success 200 {object} records.MessageResponse
// @Failure 400 {object} records.MessageResponse
// @Failure 500 {object} records.MessageResponse
// @Router /medicines/{id} [put]
func updateMedicineHandler(svc *Service) http.HandlerFunc {
	return records.UpdateHandler(svc)
}

// @Summary Eliminar medicamento
// @Tags medicines
// @Produce json
// @Param id path string true "Identificador de almacenamiento"
// @Success 200 {object} records.MessageResponse
// @Failure 500 {object} records.MessageResponse
// @Router /medicines/{id} [delete]
func deleteMedicineHandler(svc *Service) http.HandlerFunc {
	return records.DeleteHandler(svc)
}
