package config

import (
	"encoding/json"
	"fmt"
	"os"

	"golang-econ-reporter/internal/reporter/dto"
)

// indicatorsFile matches the on-disk metadata format. A plain array of
// indicators is accepted as well for backwards compatibility.
type indicatorsFile struct {
	Version    int                 `json:"version"`
	Indicators []dto.IndicatorMeta `json:"indicators"`
}

// LoadIndicatorCatalog reads the static indicator metadata once and
// returns an immutable catalog to be shared by the pipeline components.
func LoadIndicatorCatalog(path string) (*dto.IndicatorCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read indicators config: %w", err)
	}

	var file indicatorsFile
	if err := json.Unmarshal(raw, &file); err == nil && len(file.Indicators) > 0 {
		return dto.NewIndicatorCatalog(file.Indicators), nil
	}

	var metas []dto.IndicatorMeta
	if err := json.Unmarshal(raw, &metas); err != nil {
		return nil, fmt.Errorf("failed to parse indicators config: %w", err)
	}
	return dto.NewIndicatorCatalog(metas), nil
}
