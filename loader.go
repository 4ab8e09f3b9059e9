package tazaccess

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/theoremus-urban-solutions/taz-accessibility/config"
	"github.com/theoremus-urban-solutions/taz-accessibility/diag"
	"github.com/theoremus-urban-solutions/taz-accessibility/skim"
	"github.com/theoremus-urban-solutions/taz-accessibility/zoning"
)

// Baseline holds the per-deployment data shared by every scenario: the
// zone attribute table, the node-to-zone index and the attribute catalog.
type Baseline struct {
	Zones   *zoning.ZoneTable
	Index   *zoning.ZoneIndex
	Catalog *zoning.AttributeCatalog
}

// LoadBaseline reads the zone attribute table and node mapping and builds
// the catalog: built-in attributes, configured attribute declarations,
// then auto-registration of any remaining numeric columns.
func LoadBaseline(cfg *config.AppConfig) (*Baseline, error) {
	warns := diag.NewAggregator()

	zf, err := os.Open(cfg.Data.Zones)
	if err != nil {
		return nil, fmt.Errorf("open zone table: %w", err)
	}
	defer zf.Close()
	zones, err := zoning.LoadZoneTableCSV(zf, warns)
	if err != nil {
		return nil, err
	}

	mf, err := os.Open(cfg.Data.NodeMapping)
	if err != nil {
		return nil, fmt.Errorf("open node mapping: %w", err)
	}
	defer mf.Close()
	rows, err := zoning.LoadMappingCSV(mf, warns)
	if err != nil {
		return nil, err
	}
	index, err := zoning.NewZoneIndex(rows)
	if err != nil {
		return nil, err
	}

	catalog := zoning.NewAttributeCatalog()
	for _, a := range cfg.Attributes {
		aggregable := true
		if a.Aggregable != nil {
			aggregable = *a.Aggregable
		}
		catalog.Register(zoning.AttributeMeta{
			Name:       a.Name,
			Label:      a.Label,
			Unit:       a.Unit,
			Category:   a.Category,
			Aggregable: aggregable,
		})
	}
	catalog.RegisterColumns(zones.Columns())

	warns.LogAll("baseline")
	logrus.Infof("baseline loaded: %d zones, %d mapped nodes, %d attributes",
		zones.Len(), index.Len(), len(catalog.Names()))
	return &Baseline{Zones: zones, Index: index, Catalog: catalog}, nil
}

// LoadScenarioFile builds a scenario from a travel-time table on disk.
// When the aggregation cache is enabled and holds the file's fingerprint,
// the CSV parse and zone-pair aggregation are skipped entirely.
func LoadScenarioFile(name, path string, base *Baseline, cfg *config.AppConfig) (*Scenario, error) {
	rule, err := skim.ParseAggregateRule(cfg.Analysis.AggregateRule)
	if err != nil {
		return nil, err
	}

	var cache *skim.DiskCache
	var fingerprint string
	if cfg.Cache.Dir != "" {
		if err := os.MkdirAll(cfg.Cache.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
		cache, err = skim.OpenDiskCache(filepath.Join(cfg.Cache.Dir, "skim-cache.db"))
		if err != nil {
			return nil, err
		}
		defer cache.Close()
		fingerprint, err = skim.Fingerprint(path)
		if err != nil {
			return nil, fmt.Errorf("fingerprint %s: %w", path, err)
		}
		if pairs, ok, err := cache.Load(fingerprint, rule); err != nil {
			logrus.Warnf("skim cache read failed, falling back to full aggregation: %v", err)
		} else if ok {
			logrus.Infof("scenario %s: %d zone pairs restored from aggregation cache", name, len(pairs))
			store, err := skim.NewStoreFromPairs(name, rule, pairs)
			if err != nil {
				return nil, err
			}
			return NewScenarioFromStore(name, store, base.Zones, base.Index, base.Catalog), nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open travel-time table: %w", err)
	}
	defer f.Close()
	warns := diag.NewAggregator()
	entries, err := skim.ReadEntriesCSV(f, cfg.Analysis.BatchSize, warns)
	if err != nil {
		return nil, err
	}

	sc, err := newScenarioFromEntries(name, entries, base, rule, warns)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		if err := cache.Save(fingerprint, sc.Store); err != nil {
			logrus.Warnf("skim cache write failed: %v", err)
		}
	}
	return sc, nil
}

func newScenarioFromEntries(name string, entries []skim.Entry, base *Baseline, rule skim.AggregateRule, warns *diag.Aggregator) (*Scenario, error) {
	sc, err := NewScenario(name, entries, base.Zones, base.Index, base.Catalog, rule, warns)
	if err != nil {
		return nil, err
	}
	logrus.Infof("scenario %s: %d raw rows aggregated to %d zone pairs (%d warnings)",
		name, len(entries), sc.Store.PairCount(), sc.Warnings.Total())
	return sc, nil
}
