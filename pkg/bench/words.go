package bench

import "math/rand"

// Word lists for row labels, matching the canonical benchmark corpus.
var (
	adjectives = []string{
		"pretty", "large", "big", "small", "tall", "short", "long",
		"handsome", "plain", "quaint", "clean", "elegant", "easy", "angry",
		"crazy", "helpful", "mushy", "odd", "unsightly", "adorable",
		"important", "inexpensive", "cheap", "expensive", "fancy",
	}
	colours = []string{
		"red", "yellow", "blue", "green", "pink", "brown", "purple",
		"brown", "white", "black", "orange",
	}
	nouns = []string{
		"table", "chair", "house", "bbq", "desk", "car", "pony", "cookie",
		"sandwich", "burger", "pizza", "mouse", "keyboard",
	}
)

// labelGen produces "adjective colour noun" labels from a seeded source,
// so runs are reproducible.
type labelGen struct {
	rng *rand.Rand
}

func newLabelGen(seed int64) *labelGen {
	return &labelGen{rng: rand.New(rand.NewSource(seed))}
}

func (g *labelGen) next() string {
	return adjectives[g.rng.Intn(len(adjectives))] + " " +
		colours[g.rng.Intn(len(colours))] + " " +
		nouns[g.rng.Intn(len(nouns))]
}
