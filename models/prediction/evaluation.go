package prediction

import "math"

// Metrics are the regression scores of one model on one data split.
type Metrics struct {
	R2   float64 `json:"R²"`
	MAE  float64 `json:"MAE"`
	RMSE float64 `json:"RMSE"`
	MAPE float64 `json:"MAPE"`
}

// Evaluation is a single entry of the evaluate-all "results" array.
// Stats and raw predictions are dropped; the dashboard only shows scores.
type Evaluation struct {
	TouristCode      string  `json:"tourist_code"`
	KoreanName       string  `json:"korean_name"`
	TrainMetrics     Metrics `json:"train_metrics"`
	TestMetrics      Metrics `json:"test_metrics"`
	PerformanceLevel string  `json:"performance_level,omitempty"`
	OverfittingRisk  string  `json:"overfitting_risk,omitempty"`
}

type EvaluationError struct {
	TouristCode string `json:"tourist_code"`
	KoreanName  string `json:"korean_name"`
	Error       string `json:"error"`
}

type EvaluationSummary struct {
	TotalModels             int            `json:"total_models"`
	AverageR2               float64        `json:"average_r2"`
	AverageMAE              float64        `json:"average_mae"`
	AverageRMSE             float64        `json:"average_rmse"`
	AverageMAPE             float64        `json:"average_mape"`
	PerformanceDistribution map[string]int `json:"performance_distribution"`
	OverfittingDistribution map[string]int `json:"overfitting_distribution"`
}

// EvaluateAllResponse is the top-level JSON returned by GET /api/evaluate-all
type EvaluateAllResponse struct {
	Results   []Evaluation      `json:"results"`
	Errors    []EvaluationError `json:"errors"`
	Summary   EvaluationSummary `json:"summary"`
	Timestamp string            `json:"timestamp"`
}

// PerformanceLevel grades a test R² score.
func PerformanceLevel(r2 float64) string {
	switch {
	case r2 < 0.3:
		return "poor"
	case r2 < 0.5:
		return "fair"
	case r2 < 0.7:
		return "good"
	default:
		return "excellent"
	}
}

// OverfittingRisk grades the gap between train and test R².
func OverfittingRisk(trainR2, testR2 float64) string {
	diff := math.Abs(trainR2 - testR2)
	switch {
	case diff > 0.2:
		return "high"
	case diff > 0.1:
		return "medium"
	default:
		return "low"
	}
}

// Grade fills the performance level and overfitting risk from the scores.
func (e *Evaluation) Grade() {
	e.PerformanceLevel = PerformanceLevel(e.TestMetrics.R2)
	e.OverfittingRisk = OverfittingRisk(e.TrainMetrics.R2, e.TestMetrics.R2)
}

// Annotate fills each result's grades and rebuilds the summary distributions.
func (r *EvaluateAllResponse) Annotate() {
	performance := map[string]int{"excellent": 0, "good": 0, "fair": 0, "poor": 0}
	overfitting := map[string]int{"low": 0, "medium": 0, "high": 0}
	for i := range r.Results {
		e := &r.Results[i]
		e.Grade()
		performance[e.PerformanceLevel]++
		overfitting[e.OverfittingRisk]++
	}
	r.Summary.PerformanceDistribution = performance
	r.Summary.OverfittingDistribution = overfitting
}
