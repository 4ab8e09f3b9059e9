package skim

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/taz-accessibility/diag"
	"github.com/theoremus-urban-solutions/taz-accessibility/zoning"
)

// DefaultBatchSize bounds the rows parsed per batch during ingestion.
const DefaultBatchSize = 10000

// ReadEntriesCSV streams a travel-time table with columns origin_node,
// destination_node, travel_time (minutes). A header row is detected by
// name; headerless files are read positionally. Rows with non-numeric
// times (including the "--" placeholder used by the data provider) are
// excluded and counted, not fatal.
//
// Rows are parsed in sequential batches of batchSize to bound peak memory
// on large matrices; batches are never processed concurrently.
func ReadEntriesCSV(r io.Reader, batchSize int, warns *diag.Aggregator) ([]Entry, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	csvr.ReuseRecord = true

	first, err := csvr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read travel-time table: %w", err)
	}

	originCol, destCol, timeCol := 0, 1, 2
	line := 1
	entries := make([]Entry, 0, batchSize)
	if headerIdx := findColumn(first, "origin_node"); headerIdx >= 0 {
		originCol = headerIdx
		destCol = findColumn(first, "destination_node")
		timeCol = findColumn(first, "travel_time")
		if destCol < 0 || timeCol < 0 {
			return nil, fmt.Errorf("travel-time table missing destination_node/travel_time columns, got %v", first)
		}
	} else {
		// No header: the first row is data.
		if e, ok := parseEntry(first, originCol, destCol, timeCol, line, warns); ok {
			entries = append(entries, e)
		}
	}

	batch := make([]Entry, 0, batchSize)
	for {
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			warns.Add(diag.WarningMalformedRow, fmt.Sprintf("line %d", line))
			continue
		}
		if e, ok := parseEntry(rec, originCol, destCol, timeCol, line, warns); ok {
			batch = append(batch, e)
		}
		if len(batch) >= batchSize {
			entries = append(entries, batch...)
			batch = batch[:0]
		}
	}
	entries = append(entries, batch...)
	return entries, nil
}

func findColumn(head []string, name string) int {
	for i, h := range head {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func parseEntry(rec []string, originCol, destCol, timeCol, line int, warns *diag.Aggregator) (Entry, bool) {
	if originCol >= len(rec) || destCol >= len(rec) || timeCol >= len(rec) {
		warns.Add(diag.WarningMalformedRow, fmt.Sprintf("line %d", line))
		return Entry{}, false
	}
	origin, err1 := strconv.ParseInt(strings.TrimSpace(rec[originCol]), 10, 64)
	dest, err2 := strconv.ParseInt(strings.TrimSpace(rec[destCol]), 10, 64)
	if err1 != nil || err2 != nil {
		warns.Add(diag.WarningMalformedRow, fmt.Sprintf("line %d", line))
		return Entry{}, false
	}
	raw := strings.TrimSpace(rec[timeCol])
	minutes, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		warns.Add(diag.WarningNonNumericTime, fmt.Sprintf("line %d (%q)", line, raw))
		return Entry{}, false
	}
	return Entry{
		OriginNode:      zoning.NodeID(origin),
		DestinationNode: zoning.NodeID(dest),
		Minutes:         minutes,
	}, true
}
