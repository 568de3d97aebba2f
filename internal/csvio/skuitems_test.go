package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promodesk/promodesk_api/internal/models"
)

func TestParseSKUItemsHeaderAliases(t *testing.T) {
	// Three spellings of the same column all land on SrpPerCaseVatin.
	files := []string{
		"SKU,SRP per Case (VATIN)\nABC-1,120.50\n",
		"SKU,srppercasevatin\nABC-1,120.50\n",
		"SKU,SRP/Case (VATIN)\nABC-1,120.50\n",
	}
	for _, file := range files {
		items, mapped, err := ParseSKUItems(strings.NewReader(file))
		require.NoError(t, err)
		assert.Equal(t, 2, mapped)
		require.Len(t, items, 1)
		assert.Equal(t, "ABC-1", items[0].SKU)
		assert.Equal(t, "120.50", items[0].SrpPerCaseVatin)
	}
}

func TestParseSKUItemsIgnoresUnrecognizedColumns(t *testing.T) {
	file := "SKU,Warehouse Zone,Product Name\nABC-1,Z9,Choco Bar\n"
	items, mapped, err := ParseSKUItems(strings.NewReader(file))
	require.NoError(t, err)

	assert.Equal(t, 2, mapped)
	require.Len(t, items, 1)
	assert.Equal(t, "ABC-1", items[0].SKU)
	assert.Equal(t, "Choco Bar", items[0].ProductName)
}

func TestParseSKUItemsDuplicateHeaderLaterColumnWins(t *testing.T) {
	file := "SKU,Remarks,remarks if any\nABC-1,first,second\n"
	items, _, err := ParseSKUItems(strings.NewReader(file))
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "second", items[0].Remarks)
}

func TestParseSKUItemsHeaderCaseAndWhitespace(t *testing.T) {
	file := "  sku , PRODUCT NAME \nABC-1,Choco Bar\n"
	items, mapped, err := ParseSKUItems(strings.NewReader(file))
	require.NoError(t, err)

	assert.Equal(t, 2, mapped)
	require.Len(t, items, 1)
	assert.Equal(t, "Choco Bar", items[0].ProductName)
}

func TestParseSKUItemsNoRecognizedColumns(t *testing.T) {
	file := "Foo,Bar\n1,2\n"
	items, mapped, err := ParseSKUItems(strings.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, 0, mapped)
	require.Len(t, items, 1)
}

func TestParseSKUItemsSkipsBlankRows(t *testing.T) {
	file := "SKU,Product Name\nABC-1,Choco Bar\n,\nABC-2,Milk Tea\n"
	items, _, err := ParseSKUItems(strings.NewReader(file))
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestWriteThenParseRoundTrip(t *testing.T) {
	items := []models.SKUItem{
		{
			ID:              "row-1",
			Platform:        "Lazada",
			SKU:             "ABC-1",
			ProductName:     "Choco Bar",
			Brand:           "ChocoCo",
			SrpPerCaseVatin: "120.50",
			DateStart:       "2025-08-01",
			Remarks:         "promo window",
			LazadaShopSku:   "LZ-991",
		},
		{
			ID:               "row-2",
			SKU:              "ABC-2",
			ProductName:      "Milk Tea",
			SrpPerPieceVatex: "9.75",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSKUItems(&buf, items))

	parsed, mapped, err := ParseSKUItems(&buf)
	require.NoError(t, err)
	assert.Equal(t, len(skuFields), mapped)
	require.Len(t, parsed, 2)

	// Row ids are not serialized; everything else survives the trip.
	for i := range items {
		want := items[i]
		want.ID = ""
		assert.Equal(t, want, parsed[i])
	}
}
