// Package generator produces synthetic products for demos and load tests.
package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/abgdnv/catalog/internal/catalog/service"
	"github.com/shopspring/decimal"
)

var adjectives = []string{
	"Ergonomic", "Rustic", "Sleek", "Compact", "Durable", "Handcrafted",
	"Lightweight", "Premium", "Recycled", "Smart", "Vintage", "Wireless",
}

var materials = []string{
	"Aluminum", "Bamboo", "Ceramic", "Cotton", "Granite", "Leather",
	"Oak", "Plastic", "Rubber", "Steel", "Wool", "Glass",
}

var nouns = []string{
	"Chair", "Lamp", "Keyboard", "Backpack", "Bottle", "Mug",
	"Table", "Speaker", "Wallet", "Watch", "Blanket", "Pillow",
}

var categories = []string{
	"Home", "Electronics", "Outdoors", "Office", "Kitchen", "Accessories", "Garden", "Toys",
}

const (
	minPriceCents = 100
	maxPriceCents = 50000
)

// Generator builds random products. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a generator seeded from the runtime's random source.
func New() *Generator {
	return NewSeeded(rand.Uint64(), rand.Uint64())
}

// NewSeeded returns a generator whose output is fully determined by the seeds.
func NewSeeded(seed1, seed2 uint64) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed1, seed2))}
}

func (g *Generator) Generate() service.ProductCreateDto {
	g.mu.Lock()
	defer g.mu.Unlock()

	adjective := pick(g.rnd, adjectives)
	material := pick(g.rnd, materials)
	noun := pick(g.rnd, nouns)
	category := pick(g.rnd, categories)
	description := fmt.Sprintf("%s %s made of %s, part of our %s range.",
		adjective, strings.ToLower(noun), strings.ToLower(material), strings.ToLower(category))
	price := decimal.New(int64(minPriceCents+g.rnd.IntN(maxPriceCents-minPriceCents+1)), -2)

	return service.ProductCreateDto{
		Name:        fmt.Sprintf("%s %s %s", adjective, material, noun),
		Description: &description,
		Category:    &category,
		Price:       &price,
		UPC:         g.upc(),
	}
}

// upc returns a 12-digit UPC-A code with a valid check digit.
func (g *Generator) upc() string {
	digits := make([]byte, 11, 12)
	for i := range digits {
		digits[i] = byte('0' + g.rnd.IntN(10))
	}
	return string(append(digits, '0'+CheckDigit(string(digits))))
}

// CheckDigit computes the UPC-A check digit of the first 11 digits of code.
func CheckDigit(code string) byte {
	sum := 0
	for i := 0; i < 11 && i < len(code); i++ {
		d := int(code[i] - '0')
		if i%2 == 0 {
			sum += 3 * d
		} else {
			sum += d
		}
	}
	return byte((10 - sum%10) % 10)
}

func pick(rnd *rand.Rand, words []string) string {
	return words[rnd.IntN(len(words))]
}
