// Package generator provides the seedable randomness source used by synthesis.
package generator

import (
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Source draws random values and fake customer details from one seeded stream.
// Two sources created with the same non-zero seed produce the same sequence.
// A Source is not safe for concurrent use.
type Source struct {
	faker *gofakeit.Faker
	seed  uint64
}

// NewSource creates a source. A zero seed selects a random seed.
func NewSource(seed uint64) *Source {
	return &Source{
		faker: gofakeit.New(seed),
		seed:  seed,
	}
}

// Seed returns the seed the source was created with (0 means random)
func (s *Source) Seed() uint64 {
	return s.seed
}

// IntRange returns a uniform integer in [min, max]
func (s *Source) IntRange(min, max int) int {
	if min >= max {
		return min
	}
	return s.faker.IntRange(min, max)
}

// Float64Range returns a uniform float in [min, max]
func (s *Source) Float64Range(min, max float64) float64 {
	if min >= max {
		return min
	}
	return s.faker.Float64Range(min, max)
}

// DateRange returns a time uniformly between start and end
func (s *Source) DateRange(start, end time.Time) time.Time {
	if !end.After(start) {
		return start
	}
	return s.faker.DateRange(start, end)
}

// PersonName returns a fake full name
func (s *Source) PersonName() string {
	return s.faker.Name()
}

// Email returns a fake email address
func (s *Source) Email() string {
	return s.faker.Email()
}

// StreetAddress returns a fake postal address on a single line
func (s *Source) StreetAddress() string {
	addr := s.faker.Address().Address
	return strings.ReplaceAll(addr, "\n", ", ")
}
