// Package router registra as rotas da API sobre o httprouter
package router

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/vfg2006/rental-analytics/pkg/apiErrors"
)

var (
	WithRoutes = func(routes ...Route) ConfigRouter {
		return func(router *Router) {
			router.AddRoutes(routes...)
		}
	}
)

type Route struct {
	Path        string
	Method      string
	Handler     http.Handler
	Middlewares []func(http.Handler) http.Handler // aplicados apenas a esta rota
}

type Router struct {
	router *httprouter.Router
}

type ConfigRouter func(router *Router)

func New(configs ...ConfigRouter) Router {
	rt := httprouter.New()
	rt.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Rota não encontrada", nil)
	})
	rt.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte(`{"code":"VAL_001","message":"Método não permitido"}` + "\n"))
	})

	router := &Router{router: rt}
	for _, config := range configs {
		config(router)
	}

	return *router
}

func (r Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// AddRoutes registra as rotas; o primeiro middleware da lista é o mais externo
func (r Router) AddRoutes(routes ...Route) {
	for _, route := range routes {
		handler := route.Handler
		for i := len(route.Middlewares) - 1; i >= 0; i-- {
			handler = route.Middlewares[i](handler)
		}

		r.router.Handler(route.Method, route.Path, handler)
	}
}
