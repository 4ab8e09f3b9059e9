package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	tazaccess "github.com/theoremus-urban-solutions/taz-accessibility"
)

// WriteJSON serializes any result type with stable indentation.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteAccessibilityCSV emits one row per zone in canonical sorted order:
// zone_id, score, percent_of_total.
func WriteAccessibilityCSV(w io.Writer, res *tazaccess.AccessibilityResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"zone_id", "score", "percent_of_total"}); err != nil {
		return err
	}
	for _, id := range res.ZoneIDs() {
		row := []string{
			strconv.FormatInt(int64(id), 10),
			formatFloat(res.Scores[id]),
			formatFloat(res.PercentOfTotal[id]),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTimeBandCSV emits one row per band: band, lower, upper (empty for
// the open-ended overflow band), zone_count, aggregate, cumulative.
func WriteTimeBandCSV(w io.Writer, res *tazaccess.TimeBandResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"band", "lower", "upper", "zone_count", "aggregate", "cumulative"}); err != nil {
		return err
	}
	for _, band := range res.Bands {
		upper := ""
		if !band.Overflow() {
			upper = formatFloat(band.Upper)
		}
		row := []string{
			strconv.Itoa(band.Index),
			formatFloat(band.Lower),
			upper,
			strconv.Itoa(band.ZoneCount()),
			formatFloat(band.Aggregate),
			formatFloat(band.Cumulative),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteComparisonCSV emits one row per zone in canonical sorted order:
// zone_id, base, other, delta, percent_change (empty when undefined).
func WriteComparisonCSV(w io.Writer, res *tazaccess.ComparisonResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"zone_id", "base", "other", "delta", "percent_change"}); err != nil {
		return err
	}
	for _, id := range res.ZoneIDs() {
		d := res.Zones[id]
		pct := ""
		if d.PercentChange != nil {
			pct = fmt.Sprintf("%.1f", *d.PercentChange)
		}
		row := []string{
			strconv.FormatInt(int64(id), 10),
			formatFloat(d.Base),
			formatFloat(d.Other),
			formatFloat(d.Delta),
			pct,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
