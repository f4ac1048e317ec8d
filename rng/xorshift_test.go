package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextIsDeterministic(t *testing.T) {
	s1 := Seed(1, 2)
	s2 := Seed(1, 2)
	for i := 0; i < 100; i++ {
		assert.Equal(t, s1.Next(), s2.Next())
	}
}

func TestUniform01Range(t *testing.T) {
	s := SeedFromTile(7)
	for i := 0; i < 10000; i++ {
		u := s.Uniform01()
		assert.GreaterOrEqual(t, u, 0.0)
		assert.Less(t, u, 1.0)
	}
}

func TestSeedFromTileDeterministic(t *testing.T) {
	a := SeedFromTile(42)
	b := SeedFromTile(42)
	assert.Equal(t, a, b)

	c := SeedFromTile(43)
	assert.NotEqual(t, a, c)
}

func TestSeedRejectsAllZero(t *testing.T) {
	s := Seed(0, 0)
	assert.False(t, s.A == 0 && s.B == 0)
}
