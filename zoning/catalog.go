package zoning

import (
	"sort"
	"strings"
)

// AttributeMeta describes one zone attribute available for analysis.
// Aggregable=false marks rates and densities: summing them across zones
// does not produce a meaningful accessibility score, so the engine rejects
// them.
type AttributeMeta struct {
	Name       string
	Label      string
	Unit       string
	Category   string
	Aggregable bool
}

// AttributeCatalog describes the recognized zone attributes.
type AttributeCatalog struct {
	attrs map[string]AttributeMeta
}

// builtinAttributes mirrors the attribute metadata shipped with the
// source data: employment, population and facility counts.
var builtinAttributes = []AttributeMeta{
	{Name: "Emp 2024", Label: "Jobs", Unit: "jobs", Category: "demographic", Aggregable: true},
	{Name: "POP_2024", Label: "Population", Unit: "residents", Category: "demographic", Aggregable: true},
	{Name: "HEALTH_BLDG", Label: "Healthcare Facilities", Unit: "facilities", Category: "facilities", Aggregable: true},
	{Name: "HLT_BLDG", Label: "Healthcare Buildings", Unit: "facilities", Category: "facilities", Aggregable: true},
	{Name: "EDU_PRIM24", Label: "Primary Schools 2024", Unit: "schools", Category: "facilities", Aggregable: true},
	{Name: "EDU_SEC24", Label: "Secondary Schools 2024", Unit: "schools", Category: "facilities", Aggregable: true},
	{Name: "EDU_UNI24", Label: "Universities 2024", Unit: "schools", Category: "facilities", Aggregable: true},
	{Name: "EDU_PRIM48", Label: "Primary Schools 2048", Unit: "schools", Category: "facilities", Aggregable: true},
	{Name: "EDU_SEC48", Label: "Secondary Schools 2048", Unit: "schools", Category: "facilities", Aggregable: true},
	{Name: "EDU_UNI48", Label: "Universities 2048", Unit: "schools", Category: "facilities", Aggregable: true},
	{Name: "edu_agg_24", Label: "Education Facilities 2024", Unit: "facilities", Category: "facilities", Aggregable: true},
}

// NewAttributeCatalog creates a catalog seeded with the built-in attributes.
func NewAttributeCatalog() *AttributeCatalog {
	c := &AttributeCatalog{attrs: make(map[string]AttributeMeta, len(builtinAttributes))}
	for _, meta := range builtinAttributes {
		c.attrs[meta.Name] = meta
	}
	return c
}

// Register adds or replaces an attribute description.
func (c *AttributeCatalog) Register(meta AttributeMeta) {
	if meta.Label == "" {
		meta.Label = displayName(meta.Name)
	}
	c.attrs[meta.Name] = meta
}

// RegisterColumns registers any table columns not already in the catalog
// as aggregable attributes with a title-cased display label.
func (c *AttributeCatalog) RegisterColumns(columns []string) {
	for _, col := range columns {
		if _, ok := c.attrs[col]; ok {
			continue
		}
		c.attrs[col] = AttributeMeta{
			Name:       col,
			Label:      displayName(col),
			Category:   "other",
			Aggregable: true,
		}
	}
}

// Lookup returns the metadata for an attribute name.
func (c *AttributeCatalog) Lookup(name string) (AttributeMeta, bool) {
	meta, ok := c.attrs[name]
	return meta, ok
}

// Names returns all catalog attribute names, sorted.
func (c *AttributeCatalog) Names() []string {
	names := make([]string, 0, len(c.attrs))
	for name := range c.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the catalog entries sorted by name.
func (c *AttributeCatalog) All() []AttributeMeta {
	out := make([]AttributeMeta, 0, len(c.attrs))
	for _, name := range c.Names() {
		out = append(out, c.attrs[name])
	}
	return out
}

// displayName turns a column name like "edu_agg_24" into "Edu Agg 24".
func displayName(col string) string {
	words := strings.Fields(strings.ReplaceAll(col, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
