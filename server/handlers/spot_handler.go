package handlers

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"tour-guide-server/dao/redis"
	"tour-guide-server/logger"
	services "tour-guide-server/service"
	"tour-guide-server/service/source"
)

const (
	LAT_QUERY_ARG    = "lat"
	LON_QUERY_ARG    = "lon"
	RADIUS_QUERY_ARG = "radius"
	LIMIT_QUERY_ARG  = "limit"
	SPOT_ID_PATH_VAR = "id"
)

type SpotHandler struct {
	spotService *services.SpotService
	refresher   *services.SpotsRefresherService
}

func NewSpotHandler(spotService *services.SpotService, refresher *services.SpotsRefresherService) *SpotHandler {
	return &SpotHandler{spotService: spotService, refresher: refresher}
}

// Ping handles GET /ping
func (h *SpotHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "pong"})
}

// GetSpots handles GET /v1/spots
func (h *SpotHandler) GetSpots(w http.ResponseWriter, r *http.Request) {
	spots, err := h.spotService.ListSpots()
	if err != nil {
		logger.L().Error("Error listing spots", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, spots)
}

// Health handles GET /v1/health. It answers 503 when the prediction API is
// configured but unhealthy.
func (h *SpotHandler) Health(w http.ResponseWriter, r *http.Request) {
	health, err := h.spotService.CheckHealth(r.Context())
	if err != nil {
		logger.L().Error("Error checking health", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	status := http.StatusOK
	if health.Status != services.HEALTH_OK {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

// GetSpotsNearby handles GET /v1/spots/nearby?lat={float}&lon={float}&radius={km}
func (h *SpotHandler) GetSpotsNearby(w http.ResponseWriter, r *http.Request) {
	lat, lon, radius, ok := h.parseNearbyArgs(r.URL.Query(), w)
	if !ok {
		return // error already written
	}

	spots, err := h.spotService.GetSpotsNearby(lat, lon, radius)
	if err != nil {
		logger.L().Error("Error loading nearby spots", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, spots)
}

func (h *SpotHandler) parseNearbyArgs(vals url.Values, w http.ResponseWriter) (lat, lon, radius float64, ok bool) {
	var err error

	lat, err = parseArgFloat64(vals, LAT_QUERY_ARG)
	if err != nil || math.Abs(lat) > 90 {
		http.Error(w, "Invalid argument "+LAT_QUERY_ARG, http.StatusBadRequest)
		return
	}
	lon, err = parseArgFloat64(vals, LON_QUERY_ARG)
	if err != nil || math.Abs(lon) > 180 {
		http.Error(w, "Invalid argument "+LON_QUERY_ARG, http.StatusBadRequest)
		return
	}
	radius, err = parseArgFloat64(vals, RADIUS_QUERY_ARG)
	if err != nil || radius <= 0 || math.IsInf(radius, 0) {
		http.Error(w, "Invalid argument "+RADIUS_QUERY_ARG, http.StatusBadRequest)
		return
	}
	ok = true
	return
}

// GetSpot handles GET /v1/spots/{id}
func (h *SpotHandler) GetSpot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)[SPOT_ID_PATH_VAR]
	s, err := h.spotService.GetSpot(id)
	if errors.Is(err, redis.ErrSpotNotFound) {
		http.Error(w, "Spot not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.L().Error("Error loading spot", zap.String("spot_id", id), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// GetOverview handles GET /v1/overview
func (h *SpotHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.spotService.GetOverview()
	if err != nil {
		logger.L().Error("Error building overview", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// GetRecommendation handles GET /v1/recommendation. It answers 204 when no
// spot is cached.
func (h *SpotHandler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	rec, ok, err := h.spotService.GetRecommendation()
	if err != nil {
		logger.L().Error("Error selecting recommendation", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// GetLevels handles GET /v1/levels
func (h *SpotHandler) GetLevels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.spotService.GetLevels())
}

// GetHistory handles GET /v1/history?limit={int}
func (h *SpotHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get(LIMIT_QUERY_ARG); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid argument "+LIMIT_QUERY_ARG, http.StatusBadRequest)
			return
		}
		limit = n
	}

	history, err := h.spotService.GetHistory(r.Context(), limit)
	if err != nil {
		logger.L().Error("Error loading history", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// GetModelPerformance handles GET /v1/model-performance
func (h *SpotHandler) GetModelPerformance(w http.ResponseWriter, r *http.Request) {
	resp, err := h.spotService.GetModelPerformance(r.Context())
	if errors.Is(err, services.ErrPredictionAPIUnavailable) {
		logger.L().Warn("Model performance unavailable", zap.Error(err))
		http.Error(w, "Model performance unavailable", http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		logger.L().Error("Error loading model performance", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetSpotModelPerformance handles GET /v1/model-performance/{id}
func (h *SpotHandler) GetSpotModelPerformance(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)[SPOT_ID_PATH_VAR]
	resp, err := h.spotService.GetSpotModelPerformance(r.Context(), id)
	switch {
	case errors.Is(err, services.ErrModelNotFound):
		http.Error(w, "Model not found", http.StatusNotFound)
	case errors.Is(err, services.ErrPredictionAPIUnavailable):
		logger.L().Warn("Model performance unavailable", zap.String("spot_id", id), zap.Error(err))
		http.Error(w, "Model performance unavailable", http.StatusServiceUnavailable)
	case err != nil:
		logger.L().Error("Error loading model performance", zap.String("spot_id", id), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

// Refresh handles POST /v1/refresh and answers with the new overview.
func (h *SpotHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.refresher.RefreshSpotsData(r.Context()); err != nil {
		logger.L().Error("Manual refresh failed", zap.Error(err))
		http.Error(w, "Refresh failed", http.StatusBadGateway)
		return
	}
	h.GetOverview(w, r)
}

// RefreshSpot handles POST /v1/spots/{id}/refresh and answers with the updated spot.
func (h *SpotHandler) RefreshSpot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)[SPOT_ID_PATH_VAR]
	s, err := h.refresher.RefreshSpot(r.Context(), id)
	if errors.Is(err, redis.ErrSpotNotFound) || errors.Is(err, source.ErrUnknownSpot) {
		http.Error(w, "Spot not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.L().Error("Spot refresh failed", zap.String("spot_id", id), zap.Error(err))
		http.Error(w, "Refresh failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
