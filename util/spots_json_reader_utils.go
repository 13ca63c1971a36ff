package util

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tour-guide-server/models/catalog"
	"tour-guide-server/models/prediction"
	"tour-guide-server/models/spot"
)

func readJSON[T any](filePath, what string) (*T, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", what, err)
	}
	return &out, nil
}

// ReadTouristSpotsFromJSON loads the static spot fixture and validates every entry.
func ReadTouristSpotsFromJSON(filePath string) ([]spot.TouristSpot, error) {
	spots, err := readJSON[[]spot.TouristSpot](filePath, "tourist spots")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(*spots))
	for i := range *spots {
		s := &(*spots)[i]
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("invalid spot at index %d: %w", i, err)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("duplicate spot id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return *spots, nil
}

// ReadTouristSitesResponseFromJSON loads a TouristSitesResponse from JSON on disk.
func ReadTouristSitesResponseFromJSON(filePath string) (*prediction.TouristSitesResponse, error) {
	return readJSON[prediction.TouristSitesResponse](filePath, "TouristSitesResponse")
}

// ReadPredictAllResponseFromJSON loads a PredictAllResponse from JSON on disk.
func ReadPredictAllResponseFromJSON(filePath string) (*prediction.PredictAllResponse, error) {
	return readJSON[prediction.PredictAllResponse](filePath, "PredictAllResponse")
}

// ReadEvaluateAllResponseFromJSON loads an EvaluateAllResponse from JSON on disk.
func ReadEvaluateAllResponseFromJSON(filePath string) (*prediction.EvaluateAllResponse, error) {
	return readJSON[prediction.EvaluateAllResponse](filePath, "EvaluateAllResponse")
}

// ReadSiteCatalog loads the YAML site catalog.
func ReadSiteCatalog(filePath string) (*catalog.SiteCatalog, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var c catalog.SiteCatalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal site catalog: %w", err)
	}
	if len(c.Sites) == 0 {
		return nil, fmt.Errorf("site catalog %q has no sites", filePath)
	}
	return &c, nil
}
