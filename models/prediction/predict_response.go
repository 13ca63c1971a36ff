package prediction

import (
	"fmt"
	"time"
)

// Prediction holds the model output for a single site.
// CongestionLevel is a percentage of the site's max capacity, not a level name.
type Prediction struct {
	PredictedVisitors int     `json:"predicted_visitors"`
	CongestionLevel   float64 `json:"congestion_level"`
}

// PredictResponse is returned by GET /api/predict/{code}, keyed by the site's korean name.
type PredictResponse map[string]Prediction

// PredictionError reports a site the API failed to predict.
type PredictionError struct {
	Site  string `json:"site"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

// PredictAllResponse is the top-level JSON returned by GET /api/predict-all
type PredictAllResponse struct {
	Predictions map[string]Prediction `json:"predictions"`
	Errors      []PredictionError     `json:"errors"`
	Timestamp   string                `json:"timestamp"`
}

// The API emits local ISO timestamps without a zone.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses an API timestamp. Timestamps without a zone are read in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
