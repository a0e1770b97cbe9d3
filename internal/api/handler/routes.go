package handler

import (
	"net/http"

	"github.com/vfg2006/rental-analytics/internal/api/handler/router"
	"github.com/vfg2006/rental-analytics/internal/usecases/analysis"
	"github.com/vfg2006/rental-analytics/internal/usecases/reporting"
	"github.com/vfg2006/rental-analytics/pkg/middleware"
)

func Healthcheck(db Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(db),
		},
	}
}

func Reports(service reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/neighbourhoods",
			Method:      http.MethodGet,
			Handler:     ListNeighbourhoods(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AnalystOrAdmin()},
		},
		{
			Path:        "/v1/seasonality",
			Method:      http.MethodGet,
			Handler:     ListSeasonality(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AnalystOrAdmin()},
		},
		{
			Path:        "/v1/listings/:city/:id/yield",
			Method:      http.MethodGet,
			Handler:     GetListingYield(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AnalystOrAdmin()},
		},
		{
			Path:        "/v1/pipeline/runs",
			Method:      http.MethodGet,
			Handler:     ListPipelineRuns(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AnalystOrAdmin()},
		},
	}
}

func Analysis(service analysis.Analyzer) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/analysis/price-drivers",
			Method:      http.MethodGet,
			Handler:     GetPriceDrivers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AnalystOrAdmin()},
		},
	}
}

func Pipeline(trigger PipelineTrigger, service reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/pipeline/status",
			Method:      http.MethodGet,
			Handler:     GetPipelineStatus(trigger, service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/pipeline/run",
			Method:      http.MethodPost,
			Handler:     RunPipeline(trigger),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
