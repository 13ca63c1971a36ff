package source

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"tour-guide-server/api/prediction"
	"tour-guide-server/logger"
	"tour-guide-server/models/catalog"
)

// CheckCatalog compares the site catalog with the sites the prediction API
// covers and returns one line per disagreement. An empty result means they agree.
func CheckCatalog(ctx context.Context, api prediction.PredictionAPI, siteCatalog *catalog.SiteCatalog) ([]string, error) {
	resp, err := api.GetTouristSites(ctx)
	if err != nil {
		return nil, fmt.Errorf("get tourist sites: %w", err)
	}

	var mismatches []string
	covered := make(map[string]struct{}, len(resp.Sites))
	for _, remote := range resp.Sites {
		covered[remote.Code] = struct{}{}
		site, ok := siteCatalog.ByCode(remote.Code)
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf("%s: predicted but missing from catalog", remote.Code))
			continue
		}
		if site.Name != remote.KoreanName {
			mismatches = append(mismatches, fmt.Sprintf("%s: catalog name %q, api name %q", remote.Code, site.Name, remote.KoreanName))
		}
		if site.MaxCapacity != remote.MaxCapacity {
			mismatches = append(mismatches, fmt.Sprintf("%s: catalog capacity %d, api capacity %d", remote.Code, site.MaxCapacity, remote.MaxCapacity))
		}
	}
	for _, site := range siteCatalog.Sites {
		if _, ok := covered[site.Code]; !ok {
			mismatches = append(mismatches, fmt.Sprintf("%s: in catalog but not predicted", site.Code))
		}
	}

	for _, m := range mismatches {
		logger.L().Warn("[CheckCatalog] Catalog disagrees with prediction API", zap.String("mismatch", m))
	}
	return mismatches, nil
}
