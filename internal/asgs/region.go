// Package asgs models Australian Statistical Geography Standard (ASGS) regions
// and loads their boundary files (shapefile bundles or GeoJSON feature collections).
package asgs

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// GeoType identifies an ASGS geography level. It determines which boundary
// file, attribute table, and relationship table apply to a region.
type GeoType string

const (
	// SAL is the suburb-level geography (Suburbs and Localities).
	SAL GeoType = "sal"
	// SUA is the urban-area-level geography (Significant Urban Areas).
	SUA GeoType = "sua"
	// LGA is the local-government-level geography (Local Government Areas).
	LGA GeoType = "lga"
	// SA2 is Statistical Area Level 2.
	SA2 GeoType = "sa2"
)

// ParseGeoType converts a string to a GeoType.
func ParseGeoType(s string) (GeoType, error) {
	switch GeoType(s) {
	case SAL, SUA, LGA, SA2:
		return GeoType(s), nil
	}
	return "", eris.Errorf("asgs: unknown geography type %q", s)
}

// CodePrefix returns the textual prefix that sometimes precedes identifying
// codes for this geography type in published tables ("SAL123" vs "123").
// Empty for types whose codes are always bare.
func (t GeoType) CodePrefix() string {
	if t == SAL {
		return "SAL"
	}
	return ""
}

// Region is a single labeled statistical area. Regions are immutable once
// loaded; Geom is nil when the source record carried no geometry.
type Region struct {
	Code     string
	Name     string
	State    string
	AreaSqKm float64
	Geom     geom.T
}

// Dataset describes the ABS boundary file for one geography type: where the
// shapefile lives under the data directory and which attribute fields carry
// the region code, name, and state.
type Dataset struct {
	Type          GeoType
	ShapefilePath string
	CodeField     string
	NameField     string
	StateField    string // empty when the dataset has no state attribute
	AreaField     string
}

// Datasets lists the 2021 ASGS boundary releases in GDA2020.
var Datasets = []Dataset{
	{
		Type:          SAL,
		ShapefilePath: "Boundaries/SAL_2021_AUST_GDA2020_SHP/SAL_2021_AUST_GDA2020.shp",
		CodeField:     "SAL_CODE21",
		NameField:     "SAL_NAME21",
		StateField:    "STE_NAME21",
		AreaField:     "AREASQKM21",
	},
	{
		Type:          SUA,
		ShapefilePath: "Boundaries/SUA_2021_AUST_GDA2020/SUA_2021_AUST_GDA2020.shp",
		CodeField:     "SUA_CODE21",
		NameField:     "SUA_NAME21",
		AreaField:     "AREASQKM21",
	},
	{
		Type:          LGA,
		ShapefilePath: "Boundaries/LGA_2021_AUST_GDA2020/LGA_2021_AUST_GDA2020.shp",
		CodeField:     "LGA_CODE21",
		NameField:     "LGA_NAME21",
		StateField:    "STE_NAME21",
		AreaField:     "AREASQKM21",
	},
	{
		Type:          SA2,
		ShapefilePath: "Boundaries/SA2_2021_AUST_GDA2020/SA2_2021_AUST_GDA2020.shp",
		CodeField:     "SA2_CODE21",
		NameField:     "SA2_NAME21",
		StateField:    "STE_NAME21",
		AreaField:     "AREASQKM21",
	},
}

// DatasetByType returns the boundary dataset for a geography type.
func DatasetByType(t GeoType) (Dataset, bool) {
	for _, d := range Datasets {
		if d.Type == t {
			return d, true
		}
	}
	return Dataset{}, false
}
