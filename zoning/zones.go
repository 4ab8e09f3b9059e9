package zoning

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/theoremus-urban-solutions/taz-accessibility/diag"
)

// Columns excluded from the attribute surface entirely.
var excludedColumns = map[string]bool{
	"dev type_2": true,
	"dev_type_2": true,
}

// Zone holds one zone's identifier and its numeric attribute values.
// An absent map key means the value is missing, which is distinct from 0
// at ingestion time but contributes 0 to any accessibility score.
type Zone struct {
	ID    ZoneID
	Attrs map[string]float64
}

// ZoneTable is the immutable zone attribute table for a scenario.
type ZoneTable struct {
	zones   map[ZoneID]*Zone
	ids     []ZoneID // sorted
	columns []string
	totals  map[string]float64
}

// NewZoneTable builds a table from zones. Duplicate zone IDs fail with a
// ValidationError since zone identifiers must be unique across the set.
func NewZoneTable(zones []*Zone) (*ZoneTable, error) {
	t := &ZoneTable{
		zones:  make(map[ZoneID]*Zone, len(zones)),
		ids:    make([]ZoneID, 0, len(zones)),
		totals: make(map[string]float64),
	}
	cols := map[string]bool{}
	for _, z := range zones {
		if _, ok := t.zones[z.ID]; ok {
			return nil, diag.NewValidationError("zone_table", "duplicate zone identifier %d", z.ID)
		}
		t.zones[z.ID] = z
		t.ids = append(t.ids, z.ID)
		for name, v := range z.Attrs {
			cols[name] = true
			t.totals[name] += v
		}
	}
	sort.Slice(t.ids, func(i, j int) bool { return t.ids[i] < t.ids[j] })
	t.columns = lo.Keys(cols)
	sort.Strings(t.columns)
	return t, nil
}

// IDs returns all zone identifiers in canonical sorted order.
func (t *ZoneTable) IDs() []ZoneID { return t.ids }

// Has reports whether a zone exists in the set.
func (t *ZoneTable) Has(id ZoneID) bool {
	_, ok := t.zones[id]
	return ok
}

// Len returns the number of zones.
func (t *ZoneTable) Len() int { return len(t.ids) }

// Columns returns the attribute column names seen in the table, sorted.
func (t *ZoneTable) Columns() []string { return t.columns }

// AttributeValue returns a zone's value for an attribute. The second
// return is false when the zone is unknown or the value is missing.
func (t *ZoneTable) AttributeValue(id ZoneID, attribute string) (float64, bool) {
	z, ok := t.zones[id]
	if !ok {
		return 0, false
	}
	v, ok := z.Attrs[attribute]
	return v, ok
}

// AttributeTotal returns the citywide sum of an attribute over all zones,
// treating missing values as 0.
func (t *ZoneTable) AttributeTotal(attribute string) float64 {
	return t.totals[attribute]
}

// LoadZoneTableCSV reads the zone attribute table. The first column matched
// as ZONE_ID (case-insensitive) is the key; every other non-excluded column
// is treated as a numeric attribute. Negative values are clipped to 0 and
// counted; cells that fail numeric parsing are recorded as missing values.
func LoadZoneTableCSV(r io.Reader, warns *diag.Aggregator) (*ZoneTable, error) {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	head, err := csvr.Read()
	if err != nil {
		return nil, fmt.Errorf("read zone table header: %w", err)
	}
	idCol := -1
	for i, h := range head {
		if strings.EqualFold(strings.TrimSpace(h), "ZONE_ID") {
			idCol = i
			break
		}
	}
	if idCol < 0 {
		return nil, fmt.Errorf("zone table missing ZONE_ID column, got %v", head)
	}

	zones := make([]*Zone, 0, 256)
	line := 1
	for {
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil || idCol >= len(rec) {
			warns.Add(diag.WarningMalformedRow, fmt.Sprintf("zone table line %d", line))
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(rec[idCol]), 10, 32)
		if err != nil {
			warns.Add(diag.WarningMalformedRow, fmt.Sprintf("zone table line %d", line))
			continue
		}
		z := &Zone{ID: ZoneID(id), Attrs: make(map[string]float64, len(head)-1)}
		for i, h := range head {
			if i == idCol || i >= len(rec) {
				continue
			}
			name := strings.TrimSpace(h)
			if excludedColumns[strings.ToLower(name)] {
				continue
			}
			cell := strings.TrimSpace(rec[i])
			if cell == "" {
				warns.Add(diag.WarningMissingAttributeValue, fmt.Sprintf("zone %d %s", id, name))
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				warns.Add(diag.WarningMissingAttributeValue, fmt.Sprintf("zone %d %s", id, name))
				continue
			}
			if v < 0 {
				warns.Add(diag.WarningNegativeAttributeValue, fmt.Sprintf("zone %d %s", id, name))
				v = 0
			}
			z.Attrs[name] = v
		}
		zones = append(zones, z)
	}
	return NewZoneTable(zones)
}
