package vendors

import (
	"context"
	"net/http"

	"livestock-records/internal/domain/records"
	"livestock-records/internal/store"

	"github.com/go-chi/chi/v5"
)

type Service = records.Service[Vendor]

func NewService(ctx context.Context, st store.Store, deps records.Deps) (*Service, error) {
	return records.NewService[Vendor](ctx, st, Kind(), deps)
}

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/vendors", func(vr chi.Router) {
		records.Mount(vr,
			createVendorHandler(svc),
			listVendorsHandler(svc),
			updateVendorHandler(svc),
			deleteVendorHandler(svc),
		)
	})
}

// @Summary Crear proveedor
// @Description rating acepta string o número y se guarda como string.
// @Tags vendors
// @Accept json
// @Produce json
// @Param payload body Vendor true "Todos los campos son requeridos"
// @Success 201 {object} records.MessageResponse
// @Failure 400 {object} records.MessageResponse "All fields are required. / Vendor ID already exists."
// @Failure 500 {object} records.MessageResponse
// @Router /vendors [post]
func createVendorHandler(svc *Service) http.HandlerFunc {
	return records.CreateHandler(svc)
}

// @Summary Listar proveedores
// @Tags vendors
// @Produce json
// @Success 200 {array} Vendor
// @Failure 500 {object} records.MessageResponse
// @Router /vendors [get]
func listVendorsHandler(svc *Service) http.HandlerFunc {
	return records.ListHandler(svc)
}

// @Summary Actualizar proveedor
// @Tags vendors
// @Accept json
// @Produce json
// @Param id path string true "Identificador de almacenamiento"
// @Param payload body Vendor true "Todos los campos son requeridos"
// @Success 200 {object} records.MessageResponse
// @Failure 400 {object} records.MessageResponse
// @Failure 500 {object} records.MessageResponse
// @Router /vendors/{id} [put]
func updateVendorHandler(svc *Service) http.HandlerFunc {
	return records.UpdateHandler(svc)
}

// @Summary Eliminar proveedor
// @Tags vendors
// @Produce json
// @Param id path string true "Identificador de almacenamiento"
// @Success 200 {object} records.MessageResponse
// @Failure 500 {object} records.MessageResponse
// @Router /vendors/{id} [delete]
func deleteVendorHandler(svc *Service) http.HandlerFunc {
	return records.DeleteHandler(svc)
}
