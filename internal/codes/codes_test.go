package codes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSuccess(t *testing.T) {
	assert.True(t, IsSuccess(0))
	assert.False(t, IsSuccess(1))
	assert.False(t, IsSuccess(101))
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, "Engine panic", GetErrorMessage(101))
	assert.Equal(t, "Usage error (bad or missing arguments)", GetErrorMessage(2))
	assert.Equal(t, "Unknown error", GetErrorMessage(255))
}
