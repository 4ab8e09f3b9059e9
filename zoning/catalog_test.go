package zoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogBuiltins(t *testing.T) {
	c := NewAttributeCatalog()

	meta, ok := c.Lookup("Emp 2024")
	assert.True(t, ok)
	assert.Equal(t, "Jobs", meta.Label)
	assert.True(t, meta.Aggregable)

	_, ok = c.Lookup("nonexistent")
	assert.False(t, ok)
}

func TestCatalogRegister(t *testing.T) {
	c := NewAttributeCatalog()
	c.Register(AttributeMeta{Name: "job_density", Unit: "jobs/km2", Category: "derived", Aggregable: false})

	meta, ok := c.Lookup("job_density")
	assert.True(t, ok)
	assert.Equal(t, "Job Density", meta.Label, "empty label gets a display name")
	assert.False(t, meta.Aggregable)
}

func TestCatalogRegisterColumns(t *testing.T) {
	c := NewAttributeCatalog()
	before := len(c.Names())
	c.RegisterColumns([]string{"Emp 2024", "retail_floor_24"})

	assert.Len(t, c.Names(), before+1, "known columns are not re-registered")
	meta, ok := c.Lookup("retail_floor_24")
	assert.True(t, ok)
	assert.Equal(t, "Retail Floor 24", meta.Label)
	assert.True(t, meta.Aggregable)

	// existing metadata must survive auto-registration
	meta, _ = c.Lookup("Emp 2024")
	assert.Equal(t, "Jobs", meta.Label)
}

func TestCatalogAllSorted(t *testing.T) {
	c := NewAttributeCatalog()
	all := c.All()
	names := c.Names()
	assert.Equal(t, len(names), len(all))
	for i, meta := range all {
		assert.Equal(t, names[i], meta.Name)
	}
}
