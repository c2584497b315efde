package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bom-cogs/internal/errors"
)

func TestParseQuantities(t *testing.T) {
	tiers, err := parseQuantities("1,10,100,1000")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 10, 100, 1000}, tiers)

	// Order is caller-supplied and preserved for column layout.
	tiers, err = parseQuantities("1000, 1")
	require.NoError(t, err)
	assert.Equal(t, []int{1000, 1}, tiers)

	_, err = parseQuantities("1,many")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))

	_, err = parseQuantities("0")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}
