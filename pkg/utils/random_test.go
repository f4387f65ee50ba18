package utils

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRandomRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		v := RandomRange(rng, 0.005, 0.015)
		assert.GreaterOrEqual(t, v, 0.005)
		assert.LessOrEqual(t, v, 0.015)
		assert.InDelta(t, v, math.Round(v*1e5)/1e5, 1e-12, "rounded to 1e-5")
	}

	a := RandomRange(rand.New(rand.NewSource(9)), 0, 1)
	b := RandomRange(rand.New(rand.NewSource(9)), 0, 1)
	assert.Equal(t, a, b, "same seed, same value")
}

func TestRandomIndex(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.Equal(t, -1, RandomIndex(rng, 0))
	for i := 0; i < 100; i++ {
		v := RandomIndex(rng, 3)
		assert.True(t, v >= 0 && v < 3)
	}
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, GenerateID())
}
