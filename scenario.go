package tazaccess

import (
	"github.com/google/uuid"
	"github.com/theoremus-urban-solutions/taz-accessibility/diag"
	"github.com/theoremus-urban-solutions/taz-accessibility/skim"
	"github.com/theoremus-urban-solutions/taz-accessibility/zoning"
)

// Scenario owns one travel-time store plus the zone index, attribute
// table and catalog snapshot it was built against. All of it is read-only
// for the scenario's lifetime; loading new data means building a new
// Scenario. The ID is the scenario identity used in cache keys.
type Scenario struct {
	ID       uuid.UUID
	Name     string
	Store    *skim.Store
	Zones    *zoning.ZoneTable
	Index    *zoning.ZoneIndex
	Catalog  *zoning.AttributeCatalog
	Warnings *diag.Aggregator
}

// NewScenario validates and aggregates raw travel-time entries into a
// scenario. Integrity issues are counted on warns (ingestion warnings for
// the same table may already be on it) and logged once in consolidated
// form; a nil warns gets a fresh aggregator.
func NewScenario(
	name string,
	entries []skim.Entry,
	zones *zoning.ZoneTable,
	index *zoning.ZoneIndex,
	catalog *zoning.AttributeCatalog,
	rule skim.AggregateRule,
	warns *diag.Aggregator,
) (*Scenario, error) {
	if warns == nil {
		warns = diag.NewAggregator()
	}
	store, err := skim.NewStore(name, entries, index, rule, warns)
	if err != nil {
		return nil, err
	}
	warns.LogAll(name)
	return &Scenario{
		ID:       uuid.New(),
		Name:     name,
		Store:    store,
		Zones:    zones,
		Index:    index,
		Catalog:  catalog,
		Warnings: warns,
	}, nil
}

// NewScenarioFromStore wraps an already-built store (e.g. restored from
// the on-disk aggregation cache) into a scenario.
func NewScenarioFromStore(
	name string,
	store *skim.Store,
	zones *zoning.ZoneTable,
	index *zoning.ZoneIndex,
	catalog *zoning.AttributeCatalog,
) *Scenario {
	return &Scenario{
		ID:       uuid.New(),
		Name:     name,
		Store:    store,
		Zones:    zones,
		Index:    index,
		Catalog:  catalog,
		Warnings: diag.NewAggregator(),
	}
}
