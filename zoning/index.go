package zoning

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/taz-accessibility/diag"
)

// ZoneID identifies a transportation analysis zone.
type ZoneID int32

// NodeID identifies a network node. Many nodes map to one zone.
type NodeID int64

// MappingRow is one row of the node-to-zone mapping table.
type MappingRow struct {
	Node NodeID
	Zone ZoneID
}

// ZoneIndex is an immutable node-to-zone mapping built once per scenario
// load. It is read-only after construction.
type ZoneIndex struct {
	nodeToZone map[NodeID]ZoneID
	zoneNodes  map[ZoneID][]NodeID
}

// NewZoneIndex builds the index from mapping rows. Duplicate node IDs with
// conflicting zone assignments fail with a ValidationError; duplicate rows
// that agree are tolerated.
func NewZoneIndex(rows []MappingRow) (*ZoneIndex, error) {
	ix := &ZoneIndex{
		nodeToZone: make(map[NodeID]ZoneID, len(rows)),
		zoneNodes:  make(map[ZoneID][]NodeID),
	}
	for _, row := range rows {
		if existing, ok := ix.nodeToZone[row.Node]; ok {
			if existing != row.Zone {
				return nil, diag.NewValidationError("node_mapping",
					"node %d mapped to both zone %d and zone %d", row.Node, existing, row.Zone)
			}
			continue
		}
		ix.nodeToZone[row.Node] = row.Zone
		ix.zoneNodes[row.Zone] = append(ix.zoneNodes[row.Zone], row.Node)
	}
	for _, nodes := range ix.zoneNodes {
		sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	}
	return ix, nil
}

// Resolve returns the zone a node belongs to, or false if the node is not
// in the mapping table.
func (ix *ZoneIndex) Resolve(node NodeID) (ZoneID, bool) {
	z, ok := ix.nodeToZone[node]
	return z, ok
}

// NodesFor returns the nodes mapped to a zone, sorted by node ID.
func (ix *ZoneIndex) NodesFor(zone ZoneID) []NodeID {
	return ix.zoneNodes[zone]
}

// Len returns the number of mapped nodes.
func (ix *ZoneIndex) Len() int { return len(ix.nodeToZone) }

// LoadMappingCSV reads a node-to-zone mapping table. Columns are matched
// case-insensitively: node_id or ID, zone_id or TAZ. Rows that fail to
// parse are excluded and counted on the aggregator.
func LoadMappingCSV(r io.Reader, warns *diag.Aggregator) ([]MappingRow, error) {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	head, err := csvr.Read()
	if err != nil {
		return nil, fmt.Errorf("read mapping header: %w", err)
	}
	idx := func(cols ...string) int {
		for i, h := range head {
			for _, col := range cols {
				if strings.EqualFold(strings.TrimSpace(h), col) {
					return i
				}
			}
		}
		return -1
	}
	nodeCol := idx("node_id", "ID")
	zoneCol := idx("zone_id", "TAZ")
	if nodeCol < 0 || zoneCol < 0 {
		return nil, fmt.Errorf("mapping table missing node_id/zone_id columns, got %v", head)
	}

	rows := make([]MappingRow, 0, 1024)
	line := 1
	for {
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			warns.Add(diag.WarningMalformedRow, fmt.Sprintf("mapping line %d", line))
			continue
		}
		if nodeCol >= len(rec) || zoneCol >= len(rec) {
			warns.Add(diag.WarningMalformedRow, fmt.Sprintf("mapping line %d", line))
			continue
		}
		node, err1 := strconv.ParseInt(strings.TrimSpace(rec[nodeCol]), 10, 64)
		zone, err2 := strconv.ParseInt(strings.TrimSpace(rec[zoneCol]), 10, 32)
		if err1 != nil || err2 != nil {
			warns.Add(diag.WarningMalformedRow, fmt.Sprintf("mapping line %d", line))
			continue
		}
		rows = append(rows, MappingRow{Node: NodeID(node), Zone: ZoneID(zone)})
	}
	return rows, nil
}
