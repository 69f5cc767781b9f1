package tags

import (
	"context"
	"net/http"

	"livestock-records/internal/domain/records"
	"livestock-records/internal/store"

	"github.com/go-chi/chi/v5"
)

type Service = records.Service[Tag]

func NewService(ctx context.Context, st store.Store, deps records.Deps) (*Service, error) {
	return records.NewService[Tag](ctx, st, Kind(), deps)
}

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/tags", func(tr chi.Router) {
		records.Mount(tr,
			createTagHandler(svc),
			listTagsHandler(svc),
			updateTagHandler(svc),
			deleteTagHandler(svc),
		)
	})
}

// @Summary Crear caravana
// @Description El alta ignora status y guarda "available".
// @Tags tags
// @Accept json
// @Produce json
// @Param payload body Tag true "tagId, tagColor, dateOfAcquiring (YYYY-MM-DD)"
// @Success 201 {object} records.MessageResponse
// @Failure 400 {object} records.MessageResponse "All fields are required. / Tag ID already exists."
// @Failure 500 {object} records.MessageResponse
// @Router /tags [post]
func createTagHandler(svc *Service) http.HandlerFunc {
	return records.CreateHandler(svc)
}

// @Summary Listar caravanas
// @Tags tags
// @Produce json
// @Success 200 {array} Tag
// @Failure 500 {object} records.MessageResponse
// @Router /tags [get]
func listTagsHandler(svc *Service) http.HandlerFunc {
	return records.ListHandler(svc)
}

// @Summary Actualizar caravana
// @Description status es opcional; si no se envía se conserva el actual.
// @Tags tags
// @Accept json
// @Produce json
// @Param id path string true "Identificador de almacenamiento"
// @Param payload body Tag true "tagId, tagColor, dateOfAcquiring, status"
// @Success 200 {object} records.MessageResponse
// @Failure 400 {object} records.MessageResponse
// @Failure 500 {object} records.MessageResponse
// @Router /tags/{id} [put]
func updateTagHandler(svc *Service) http.HandlerFunc {
	return records.UpdateHandler(svc)
}

// @Summary Eliminar caravana
// @Tags tags
// @Produce json
// @Param id path string true "Identificador de almacenamiento"
// @Success 200 {object} records.MessageResponse
// @Failure 500 {object} records.MessageResponse
// @Router /tags/{id} [delete]
func deleteTagHandler(svc *Service) http.HandlerFunc {
	return records.DeleteHandler(svc)
}
