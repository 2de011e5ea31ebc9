package seeder

import (
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
)

// DataGenerator produces random filler from a seeded source, so a given seed
// always yields the same numbers, picks, ids and dates.
type DataGenerator struct {
	rand *rand.Rand
	text rand.Source // go-faker's stream for this generator
	seed int64
	now  time.Time
}

func NewDataGenerator(seed int64) *DataGenerator {
	return newDataGenerator(seed, time.Now().UTC().Truncate(time.Second))
}

func newDataGenerator(seed int64, now time.Time) *DataGenerator {
	return &DataGenerator{
		rand: rand.New(rand.NewSource(seed)),
		text: rand.NewSource(seed),
		seed: seed,
		now:  now,
	}
}

// filler points go-faker's package level source at this generator's own
// stream. Every text helper calls it first, so the text a generator yields
// does not depend on other generators used in between.
func (g *DataGenerator) filler() {
	faker.SetRandomSource(g.text)
}

// Fork derives an independent generator for name. The result depends only on
// the parent seed and name, never on how much of the parent was consumed.
func (g *DataGenerator) Fork(name string) *DataGenerator {
	h := fnv.New64a()
	h.Write([]byte(name))
	return newDataGenerator(g.seed^int64(h.Sum64()), g.now)
}

func (g *DataGenerator) Seed() int64 {
	return g.seed
}

// Now is the reference time all generated dates are relative to.
func (g *DataGenerator) Now() time.Time {
	return g.now
}

func (g *DataGenerator) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return g.rand.Intn(n)
}

// Between returns an int in [min, max].
func (g *DataGenerator) Between(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rand.Intn(max-min+1)
}

// Chance returns true with probability p.
func (g *DataGenerator) Chance(p float64) bool {
	return g.rand.Float64() < p
}

// Float returns a value in [min, max) rounded to decimals places.
func (g *DataGenerator) Float(min, max float64, decimals int) float64 {
	v := min + g.rand.Float64()*(max-min)
	return Round(v, decimals)
}

func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

func (g *DataGenerator) Pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[g.rand.Intn(len(options))]
}

func (g *DataGenerator) PickID(ids []int64) int64 {
	if len(ids) == 0 {
		return 0
	}
	return ids[g.rand.Intn(len(ids))]
}

// SampleIDs returns up to n distinct ids in random order.
func (g *DataGenerator) SampleIDs(ids []int64, n int) []int64 {
	if n > len(ids) {
		n = len(ids)
	}
	if n <= 0 {
		return nil
	}
	perm := g.rand.Perm(len(ids))
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		out[i] = ids[perm[i]]
	}
	return out
}

// PastDate returns a moment within the last maxDays days.
func (g *DataGenerator) PastDate(maxDays int) time.Time {
	seconds := g.rand.Int63n(int64(maxDays)*86400 + 1)
	return g.now.Add(-time.Duration(seconds) * time.Second)
}

// FutureDate returns a moment within the next maxDays days.
func (g *DataGenerator) FutureDate(maxDays int) time.Time {
	seconds := g.rand.Int63n(int64(maxDays)*86400 + 1)
	return g.now.Add(time.Duration(seconds) * time.Second)
}

// Period formats the month monthsAgo months before Now as YYYY-MM.
func (g *DataGenerator) Period(monthsAgo int) string {
	first := time.Date(g.now.Year(), g.now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -monthsAgo, 0).Format("2006-01")
}

func (g *DataGenerator) UUID() string {
	id, err := uuid.NewRandomFromReader(g.rand)
	if err != nil {
		// math/rand reads never fail
		panic(err)
	}
	return id.String()
}

// Token returns n random bytes hex encoded.
func (g *DataGenerator) Token(n int) string {
	b := make([]byte, n)
	g.rand.Read(b)
	return hex.EncodeToString(b)
}

func (g *DataGenerator) FullName() string {
	g.filler()
	return faker.FirstName() + " " + faker.LastName()
}

func (g *DataGenerator) Sentence() string {
	g.filler()
	return faker.Sentence()
}

func (g *DataGenerator) Paragraph() string {
	g.filler()
	return faker.Paragraph()
}

func (g *DataGenerator) URL() string {
	g.filler()
	return faker.URL()
}

// Street returns a street address in city.
func (g *DataGenerator) Street(city string) string {
	streets := []string{"Carrer Major", "Calle Real", "Rúa Nova", "Avenida del Sol", "Kale Nagusia", "Plaza Mayor", "Rua Direita"}
	return fmt.Sprintf("%s %d, %s", g.Pick(streets), g.Between(1, 180), city)
}

// Slugify lowercases s and joins its ASCII words with hyphens.
func Slugify(s string) string {
	replacer := strings.NewReplacer(
		"á", "a", "à", "a", "é", "e", "è", "e", "í", "i", "ï", "i",
		"ó", "o", "ò", "o", "ú", "u", "ü", "u", "ñ", "n", "ç", "c",
		"'", "", "’", "",
	)
	s = replacer.Replace(strings.ToLower(s))

	var b strings.Builder
	dash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
