package utils_test

import (
	"testing"

	"github.com/D-Dynamico/Parking-Management/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.True(t, utils.CheckPasswordHash("secret1", hash))
	assert.False(t, utils.CheckPasswordHash("wrong", hash))
	assert.False(t, utils.CheckPasswordHash("secret1", "not-a-hash"))
}
