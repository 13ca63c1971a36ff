package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"tour-guide-server/metrics"
	"tour-guide-server/server/middleware"
)

// SpotRoutes serves the spot and congestion endpoints.
type SpotRoutes interface {
	Ping(w http.ResponseWriter, r *http.Request)
	Health(w http.ResponseWriter, r *http.Request)
	GetSpots(w http.ResponseWriter, r *http.Request)
	GetSpotsNearby(w http.ResponseWriter, r *http.Request)
	GetSpot(w http.ResponseWriter, r *http.Request)
	GetOverview(w http.ResponseWriter, r *http.Request)
	GetRecommendation(w http.ResponseWriter, r *http.Request)
	GetLevels(w http.ResponseWriter, r *http.Request)
	GetHistory(w http.ResponseWriter, r *http.Request)
	GetModelPerformance(w http.ResponseWriter, r *http.Request)
	GetSpotModelPerformance(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	RefreshSpot(w http.ResponseWriter, r *http.Request)
}

// ChartRoutes serves the chart pages.
type ChartRoutes interface {
	GetComparisonChart(w http.ResponseWriter, r *http.Request)
	GetHourlyChart(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	spotHandler  SpotRoutes
	chartHandler ChartRoutes
	metrics      *metrics.Metrics
	router       *mux.Router
}

// NewRouter creates a router with the app's routes. m may be nil, in which
// case /metrics is not served.
func NewRouter(
	spotHandler SpotRoutes,
	chartHandler ChartRoutes,
	m *metrics.Metrics,
	router *mux.Router) *Router {
	return &Router{
		spotHandler:  spotHandler,
		chartHandler: chartHandler,
		metrics:      m,
		router:       router,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.Use(middleware.RequestID, middleware.Observe(r.metrics))

	r.router.HandleFunc("/ping", r.spotHandler.Ping).Methods(http.MethodGet)
	r.router.HandleFunc("/v1/health", r.spotHandler.Health).Methods(http.MethodGet)

	r.router.HandleFunc("/v1/spots", r.spotHandler.GetSpots).Methods(http.MethodGet)
	// expects ?lat={latitude(float)}&lon={longitude(float)}&radius={radius in km(float)}
	r.router.HandleFunc("/v1/spots/nearby", r.spotHandler.GetSpotsNearby).Methods(http.MethodGet)
	r.router.HandleFunc("/v1/spots/{id}", r.spotHandler.GetSpot).Methods(http.MethodGet)
	r.router.HandleFunc("/v1/spots/{id}/refresh", r.spotHandler.RefreshSpot).Methods(http.MethodPost)

	r.router.HandleFunc("/v1/overview", r.spotHandler.GetOverview).Methods(http.MethodGet)
	r.router.HandleFunc("/v1/recommendation", r.spotHandler.GetRecommendation).Methods(http.MethodGet)
	r.router.HandleFunc("/v1/levels", r.spotHandler.GetLevels).Methods(http.MethodGet)
	r.router.HandleFunc("/v1/history", r.spotHandler.GetHistory).Methods(http.MethodGet)
	r.router.HandleFunc("/v1/model-performance", r.spotHandler.GetModelPerformance).Methods(http.MethodGet)
	r.router.HandleFunc("/v1/model-performance/{id}", r.spotHandler.GetSpotModelPerformance).Methods(http.MethodGet)
	r.router.HandleFunc("/v1/refresh", r.spotHandler.Refresh).Methods(http.MethodPost)

	r.router.HandleFunc("/v1/charts/comparison", r.chartHandler.GetComparisonChart).Methods(http.MethodGet)
	r.router.HandleFunc("/v1/charts/spots/{id}/hourly", r.chartHandler.GetHourlyChart).Methods(http.MethodGet)

	if r.metrics != nil {
		r.router.Handle("/metrics", r.metrics.Handler()).Methods(http.MethodGet)
	}
}
