package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ViacheslavGIT/MegaMart/internal/shop"
)

func TestReadProducts(t *testing.T) {
	products, err := readProducts(strings.NewReader(`[
		{"name":"iPhone 15","brand":"Apple","category":"Smartphones","price":999,"off":10,"img":"/img/iphone.png"},
		{"name":"Galaxy S24","brand":"Samsung","category":"Smartphones","price":899}
	]`))
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Apple", products[0].Brand)
	assert.Equal(t, 10.0, products[0].Off)

	_, err = readProducts(strings.NewReader(`[]`))
	assert.Error(t, err)
	_, err = readProducts(strings.NewReader(`[{"name":"x","colour":"red"}]`))
	assert.Error(t, err)
	_, err = readProducts(strings.NewReader(`{"name":"x"}`))
	assert.Error(t, err)
}

func TestRunDryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Mug","price":5}]`), 0o600))
	assert.NoError(t, run(context.Background(), path, true))
	assert.Error(t, run(context.Background(), filepath.Join(t.TempDir(), "missing.json"), true))
}

func TestRunDryRunValidates(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative price", `[{"name":"Mug","price":-1}]`},
		{"discount over 100", `[{"name":"Mug","price":5,"off":120}]`},
		{"missing name", `[{"name":"Mug","price":5},{"price":5}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "products.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o600))
			assert.ErrorIs(t, run(context.Background(), path, true), shop.ErrInvalidInput)
		})
	}
}
