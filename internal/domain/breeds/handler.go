package breeds

import (
	"context"
	"net/http"

	"livestock-records/internal/domain/records"
	"livestock-records/internal/store"

	"github.com/go-chi/chi/v5"
)

type Service = records.Service[Breed]

func NewService(ctx context.Context, st store.Store, deps records.Deps) (*Service, error) {
	return records.NewService[Breed](ctx, st, Kind(), deps)
}

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/breeds", func(br chi.Router) {
		records.Mount(br,
			createBreedHandler(svc),
			listBreedsHandler(svc),
			updateBreedHandler(svc),
			deleteBreedHandler(svc),
		)
	})
}

// @Summary Crear raza
// @Description Inserta una raza. breedId es único (índice); un duplicado responde 409.
// @Tags breeds
// @Accept json
// @Produce json
// @Param payload body Breed true "breedId y breedName"
// @Success 201 {object} records.MessageResponse
// @Failure 400 {object} records.MessageResponse "invalid json / All fields are required."
// @Failure 409 {object} records.MessageResponse "Duplicate breedId not allowed"
// @Failure 500 {object} records.MessageResponse "texto del error de inserción"
// @Router /breeds [post]
func createBreedHandler(svc *Service) http.HandlerFunc {
	return records.CreateHandler(svc)
}

// @Summary Listar razas
// @Description Devuelve todas las razas en orden natural de almacenamiento.
// @Tags breeds
// @Produce json
// @Success 200 {array} Breed
// @Failure 500 {object} map[string]string "error"
// @Router /breeds [get]
func listBreedsHandler(svc *Service) http.HandlerFunc {
	return records.ListHandler(svc)
}

// @Summary Actualizar raza
// @Description $set de breedId y breedName. Un id inexistente igual responde 200.
// @Tags breeds
// @Accept json
// @Produce json
// @Param id path string true "Identificador de almacenamiento"
// @Param payload body Breed true "breedId y breedName"
// @Success 200 {object} records.MessageResponse
// @Failure 400 {object} records.MessageResponse
// @Failure 409 {object} records.MessageResponse "Duplicate breedId not allowed"
// @Failure 500 {object} records.MessageResponse
// @Router /breeds/{id} [put]
func updateBreedHandler(svc *Service) http.HandlerFunc {
	return records.UpdateHandler(svc)
}

// @Summary Eliminar raza
// @Tags breeds
// @Produce json
// @Param id path string true "Identificador de almacenamiento"
// @Success 200 {object} records.MessageResponse
// @Failure 500 {object} records.MessageResponse
// @Router /breeds/{id} [delete]
func deleteBreedHandler(svc *Service) http.HandlerFunc {
	return records.DeleteHandler(svc)
}
