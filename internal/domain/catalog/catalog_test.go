package catalog_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanja-cards/backend/internal/domain/catalog"
)

func TestNew_PreservesOrder(t *testing.T) {
	c, err := catalog.New([]catalog.Item{
		{ID: "b", Character: "街"},
		{ID: "a", Character: "假"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, c.IDs())
	assert.Equal(t, 2, c.Len())
}

func TestNew_RejectsDuplicateIDs(t *testing.T) {
	_, err := catalog.New([]catalog.Item{
		{ID: "a", Character: "假"},
		{ID: "a", Character: "街"},
	})

	assert.ErrorIs(t, err, catalog.ErrDuplicateID)
}

func TestNew_RejectsMissingFields(t *testing.T) {
	_, err := catalog.New([]catalog.Item{{ID: "", Character: "假"}})
	assert.Error(t, err)

	_, err = catalog.New([]catalog.Item{{ID: "a"}})
	assert.Error(t, err)
}

func TestNew_Empty(t *testing.T) {
	_, err := catalog.New(nil)

	assert.ErrorIs(t, err, catalog.ErrEmpty)
}

func TestLoad_YAML(t *testing.T) {
	c, err := catalog.Load(filepath.Join("testdata", "cards.yaml"))
	require.NoError(t, err)

	item, ok := c.Get("h4-002")
	require.True(t, ok)
	assert.Equal(t, "街", item.Character)
	assert.Equal(t, 12, item.Total)
}

func TestLoad_JSON(t *testing.T) {
	c, err := catalog.Load(filepath.Join("testdata", "cards.json"))
	require.NoError(t, err)

	assert.Equal(t, []string{"h4-003", "h4-004", "h4-005"}, c.IDs())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := catalog.Load(filepath.Join("testdata", "nope.json"))

	assert.Error(t, err)
}

func TestLookup_SkipsUnknown(t *testing.T) {
	c, err := catalog.New([]catalog.Item{
		{ID: "a", Character: "假"},
		{ID: "b", Character: "街"},
	})
	require.NoError(t, err)

	items := c.Lookup([]string{"b", "zzz", "a"})

	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, "a", items[1].ID)
}

func TestItemsReturnsCopy(t *testing.T) {
	c, err := catalog.New([]catalog.Item{{ID: "a", Character: "假"}})
	require.NoError(t, err)

	items := c.Items()
	items[0].Character = "X"

	got, _ := c.Get("a")
	assert.Equal(t, "假", got.Character)
}
