package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSeeds(t *testing.T) {
	assert.Equal(t, "1,2,3", FormatSeeds([]int{1, 2, 3}))
	assert.Equal(t, "42", FormatSeeds([]int{42}))
	assert.Equal(t, "", FormatSeeds(nil))
}

func TestParseSeeds(t *testing.T) {
	seeds, err := ParseSeeds("1, 2,3")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, seeds)

	seeds, err = ParseSeeds("")
	require.NoError(t, err)
	assert.Nil(t, seeds)

	_, err = ParseSeeds("1,x,3")
	assert.Error(t, err)
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0.95", FormatFloat(0.95))
	assert.Equal(t, "1200", FormatFloat(1200.0))
	assert.Equal(t, "-0.25", FormatFloat(-0.25))
}
