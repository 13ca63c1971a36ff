package prediction

// HealthResponse is returned by GET /api/health
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

func (h *HealthResponse) Healthy() bool {
	return h.Status == "healthy"
}
