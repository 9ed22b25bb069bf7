package app

import (
	"net/http"

	"github.com/kegliz/qalloc/internal/server/router"
)

func (a *appServer) routes() []*router.Route {
	return []*router.Route{
		{
			Name:        "root",
			Method:      http.MethodGet,
			Pattern:     "/",
			HandlerFunc: a.RootHandler,
		},
		{
			Name:        "health",
			Method:      http.MethodGet,
			Pattern:     "/health",
			HandlerFunc: a.HealthHandler,
		},
		{
			Name:        "api.allocate",
			Method:      http.MethodPost,
			Pattern:     "/api/allocate",
			HandlerFunc: a.Allocate,
		},
		{
			Name:        "api.allocate.get",
			Method:      http.MethodGet,
			Pattern:     "/api/allocate/:id",
			HandlerFunc: a.GetJob,
		},
	}
}
