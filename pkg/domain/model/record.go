package model

import (
	"github.com/barriolab/vecino/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// RecordID identifies a catalog record
type RecordID string

// Record is one catalog entry: a business with a storefront or an at-home
// service. The JSON tags follow the catalog files produced by the data
// preparation step, which are Spanish. Records are immutable after load.
type Record struct {
	ID       RecordID         `json:"id"`
	Name     string           `json:"nombre"`
	Kind     types.RecordKind `json:"tipo"`
	Zone     types.Zone       `json:"zona"`
	Tags     []string         `json:"tags"`
	Contact  string           `json:"contacto"`
	MapsURL  string           `json:"maps"`

	// Business fields
	Category  string   `json:"categoria"`
	Address   string   `json:"direccion"`
	HoursSpec string   `json:"horarios"`
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lon"`

	// Service fields
	Rubro      string `json:"rubro"`
	Experience string `json:"experiencia"`
}

// HasCoordinates reports whether both latitude and longitude are present.
// Records without coordinates are excluded from geo ranking, never passed in.
func (r *Record) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Validate checks the per-record invariants. ID uniqueness across the catalog
// is enforced by the catalog store on load.
func (r *Record) Validate() error {
	if r.ID == "" {
		return goerr.New("record ID is required", goerr.V("name", r.Name))
	}
	if r.Name == "" {
		return goerr.New("record name is required", goerr.V("id", r.ID))
	}
	if !r.Kind.Normalize().IsValid() {
		return goerr.New("invalid record kind", goerr.V("id", r.ID), goerr.V("kind", r.Kind))
	}
	if !r.Zone.IsValid() {
		return goerr.New("invalid record zone", goerr.V("id", r.ID), goerr.V("zone", r.Zone))
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		return goerr.New("latitude and longitude must both be present or both absent",
			goerr.V("id", r.ID))
	}
	return nil
}
