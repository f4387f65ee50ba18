package utils

import (
	"math"
	"math/rand"

	"github.com/google/uuid"
)

// GenerateID создает уникальный ID (области, сессии наблюдателей)
func GenerateID() string {
	return uuid.NewString()
}

// RandomRange - равномерное число из [min, max), округлённое до 10^-5.
func RandomRange(rng *rand.Rand, min, max float64) float64 {
	const base = 1e5
	return math.Round((rng.Float64()*(max-min)+min)*base) / base
}

// RandomIndex - индекс из [0, n). Для n <= 0 возвращает -1.
func RandomIndex(rng *rand.Rand, n int) int {
	if n <= 0 {
		return -1
	}
	return rng.Intn(n)
}
