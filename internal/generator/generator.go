// Package generator builds randomized game prompts.
package generator

import (
	"math/rand"
	"time"
)

// Source is the randomness used by the games. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// Point is a position on the play field in percent coordinates.
type Point struct {
	X float64
	Y float64
}

// New returns a Source seeded with seed, or with the current time when seed is 0.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Shuffle permutes n elements in place with a Fisher-Yates walk from the last index down.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		swap(i, j)
	}
}

// Position returns a uniformly random point with x in [10,90) and y in [15,85).
func Position(src Source) Point {
	return Point{
		X: src.Float64()*80 + 10,
		Y: src.Float64()*70 + 15,
	}
}

// Pick returns a uniformly random element of items.
func Pick[T any](src Source, items []T) T {
	return items[src.Intn(len(items))]
}
