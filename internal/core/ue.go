package core

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/large-farva/ntn-handover-core/internal/access"
)

// UE describes one tracked user equipment: its identity, service class
// (which governs overload exemptions), serving satellite, and carrier
// frequency. Loaded from the roster file named by the --ues flag
// (spec.md §7 of the expanded spec).
type UE struct {
	ID                 string              `json:"id"`
	ServiceClass       access.ServiceClass `json:"service_class"`
	ServingSatelliteID string              `json:"serving_satellite_id"`
	CarrierHz          float64             `json:"carrier_hz"`
}

// LoadUEs reads a JSON array of UE roster entries from path.
func LoadUEs(path string) ([]UE, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("core: read UE roster %s: %w", path, err)
	}
	var ues []UE
	if err := json.Unmarshal(data, &ues); err != nil {
		return nil, fmt.Errorf("core: parse UE roster %s: %w", path, err)
	}
	for i := range ues {
		if ues[i].ServiceClass == "" {
			ues[i].ServiceClass = access.ServiceClassStandard
		}
	}
	return ues, nil
}
