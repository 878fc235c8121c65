package model

import "encoding/json"

// Column names of the match-relevant subset of the registry table. The
// importer sanitizes CSV headers to these names; the repository extracts them
// from every fetched row.
const (
	ColProjectName     = "project_name_en"
	ColMasterProject   = "master_project_en"
	ColAreaName        = "area_name_en"
	ColPropertyType    = "property_type_en"
	ColPropertySubType = "property_sub_type_en"
	ColRooms           = "rooms"
	ColActualArea      = "actual_area"
	ColUnitNumber      = "unit_number"
	ColLandNumber      = "land_number"
)

// RegistryRecord is a read-only view over one row of the government unit
// registry. The ~8 match-relevant fields are promoted to named accessors; the
// remaining columns ride along untouched in Fields and are returned to the
// caller as-is.
type RegistryRecord struct {
	ProjectName     string
	MasterProject   string
	AreaName        string
	PropertyType    string
	PropertySubType string
	Rooms           string
	ActualArea      string // square meters, numeric string in the source
	UnitNumber      string
	LandNumber      string

	// Fields carries every column of the row, including the promoted ones.
	Fields map[string]string
}

// NewRegistryRecord promotes the match-relevant columns out of a raw row.
func NewRegistryRecord(fields map[string]string) RegistryRecord {
	return RegistryRecord{
		ProjectName:     fields[ColProjectName],
		MasterProject:   fields[ColMasterProject],
		AreaName:        fields[ColAreaName],
		PropertyType:    fields[ColPropertyType],
		PropertySubType: fields[ColPropertySubType],
		Rooms:           fields[ColRooms],
		ActualArea:      fields[ColActualArea],
		UnitNumber:      fields[ColUnitNumber],
		LandNumber:      fields[ColLandNumber],
		Fields:          fields,
	}
}

// BusinessKey identifies a registry record for deduplication. The registry
// itself may contain true duplicate rows for the same key.
type BusinessKey struct {
	UnitNumber  string
	LandNumber  string
	ProjectName string
}

// Key returns the record's business identity.
func (r *RegistryRecord) Key() BusinessKey {
	return BusinessKey{
		UnitNumber:  r.UnitNumber,
		LandNumber:  r.LandNumber,
		ProjectName: r.ProjectName,
	}
}

// MarshalJSON flattens the record to its full column map, so the caller sees
// all registry columns without the promoted fields duplicated.
func (r RegistryRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Fields)
}

// UnmarshalJSON rebuilds a record from its flattened column map.
func (r *RegistryRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*r = NewRegistryRecord(fields)
	return nil
}

// Match-strength bands for downstream display.
const (
	BandHigh   = "high"
	BandMedium = "medium"
	BandLow    = "low"
)

// ScoredCandidate is a registry record plus its accumulated match score.
type ScoredCandidate struct {
	Record     RegistryRecord `json:"record"`
	MatchScore float64        `json:"match_score"`
	Band       string         `json:"band"`
}
