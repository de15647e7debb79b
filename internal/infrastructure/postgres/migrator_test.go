package postgres

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations_Embebidas(t *testing.T) {
	list, err := LoadMigrations(migrationsFS)
	require.NoError(t, err)
	require.NotEmpty(t, list)

	assert.Equal(t, 1, list[0].Version)
	assert.Equal(t, "init", list[0].Name)
	assert.Contains(t, list[0].Up, "CONSTRAINT products_sku_key UNIQUE (sku)")
	assert.Contains(t, list[0].Down, "DROP TABLE IF EXISTS products")
}

func TestLoadMigrations_OrdenYValidacion(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_b.up.sql":   {Data: []byte("SELECT 2")},
		"0001_a.up.sql":   {Data: []byte("SELECT 1")},
		"0001_a.down.sql": {Data: []byte("SELECT -1")},
		"README.md":       {Data: []byte("ignorado")},
	}
	list, err := LoadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].Version)
	assert.Equal(t, "SELECT -1", list[0].Down)
	assert.Equal(t, 2, list[1].Version)
	assert.Empty(t, list[1].Down)

	_, err = LoadMigrations(fstest.MapFS{"0003_c.down.sql": {Data: []byte("x")}})
	assert.Error(t, err)
}
