package api

import (
	"net/http"

	"github.com/go-chi/chi"
	middlechi "github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/pvetools/mcpdeploy/app/api/models"
	v1 "github.com/pvetools/mcpdeploy/app/api/v1"
	"github.com/pvetools/mcpdeploy/middleware"
)

type API struct {
	routes chi.Router
}

func NewAPI(router chi.Router) *API {
	return &API{
		routes: router,
	}
}

func (api *API) Init() error {
	api.routes.Use(middlechi.RealIP)
	api.routes.Use(middlechi.DefaultLogger)
	api.routes.Use(middleware.Recoverer)
	api.routes.Use(render.SetContentType(render.ContentTypeJSON))

	api.routes.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.Render(w, r, &models.APIResponse{
			Status: http.StatusOK,
		})
	})

	provisionEndpoint, err := v1.NewProvisionEndpoint()
	if err != nil {
		return err
	}

	api.routes.Route("/v1", func(r chi.Router) {
		r.Use(middleware.CheckSharedSecret)
		provisionEndpoint.Mount(r)
	})

	return nil
}
