package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"tour-guide-server/dao/redis"
	"tour-guide-server/logger"
	services "tour-guide-server/service"
	"tour-guide-server/util"
)

// ChartHandler serves the dashboard charts as standalone HTML pages.
type ChartHandler struct {
	spotService *services.SpotService
}

func NewChartHandler(spotService *services.SpotService) *ChartHandler {
	return &ChartHandler{spotService: spotService}
}

// GetComparisonChart handles GET /v1/charts/comparison
func (h *ChartHandler) GetComparisonChart(w http.ResponseWriter, r *http.Request) {
	spots, err := h.spotService.ListSpots()
	if err != nil {
		logger.L().Error("Error listing spots for chart", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := util.RenderComparisonChart(&buf, spots); err != nil {
		logger.L().Error("Error rendering comparison chart", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

// GetHourlyChart handles GET /v1/charts/spots/{id}/hourly
func (h *ChartHandler) GetHourlyChart(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)[SPOT_ID_PATH_VAR]
	s, err := h.spotService.GetSpot(id)
	if errors.Is(err, redis.ErrSpotNotFound) {
		http.Error(w, "Spot not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.L().Error("Error loading spot for chart", zap.String("spot_id", id), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := util.RenderHourlyChart(&buf, *s); err != nil {
		logger.L().Error("Error rendering hourly chart", zap.String("spot_id", id), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logger.L().Error("Error writing chart", zap.Error(err))
	}
}
