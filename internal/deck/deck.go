// Package deck provides the character card deck for the engine: an ordered,
// shuffled stack supporting draw, return-and-reshuffle, and deterministic
// shuffling via an injected RNG.
package deck

import (
	"fmt"
	"math/rand"
)

// CopiesPerKind is the number of copies of each role in a standard deck.
const CopiesPerKind = 3

// Deck is an ordered stack of cards. The top of the deck is the end of the
// slice: Draw pops from the end, Return pushes and reshuffles.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a standard shuffled deck: three copies of each of the five
// kinds with default names. Pass a seeded rng for deterministic deals.
func New(rng *rand.Rand) *Deck {
	cards := make([]Card, 0, len(Kinds)*CopiesPerKind)
	for _, kind := range Kinds {
		for i := 0; i < CopiesPerKind; i++ {
			cards = append(cards, Card{
				ID:   fmt.Sprintf("%s_%d", kind, i+1),
				Kind: kind,
				Name: string(kind),
			})
		}
	}
	d := &Deck{cards: cards, rng: rng}
	d.Shuffle()
	return d
}

// NewThemed builds a shuffled deck from themed template cards, one template
// per kind, triplicating each and assigning copy-unique IDs. Templates with
// an invalid kind are rejected.
func NewThemed(rng *rand.Rand, templates []Card) (*Deck, error) {
	if len(templates) != len(Kinds) {
		return nil, fmt.Errorf("themed deck requires %d template cards, got %d", len(Kinds), len(templates))
	}
	seen := make(map[Kind]bool, len(Kinds))
	cards := make([]Card, 0, len(Kinds)*CopiesPerKind)
	for _, tmpl := range templates {
		if !tmpl.Kind.Valid() {
			return nil, fmt.Errorf("invalid card kind %q", tmpl.Kind)
		}
		if seen[tmpl.Kind] {
			return nil, fmt.Errorf("duplicate template for kind %q", tmpl.Kind)
		}
		seen[tmpl.Kind] = true
		for i := 0; i < CopiesPerKind; i++ {
			card := tmpl
			card.ID = fmt.Sprintf("%s_%d", tmpl.Kind, i+1)
			cards = append(cards, card)
		}
	}
	d := &Deck{cards: cards, rng: rng}
	d.Shuffle()
	return d, nil
}

// Shuffle randomizes the deck order using Fisher-Yates.
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.Intn(i + 1)
		} else {
			j = rand.Intn(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, true
}

// DrawN draws up to n cards from the top.
func (d *Deck) DrawN(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	cards := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		card, ok := d.Draw()
		if !ok {
			break
		}
		cards = append(cards, card)
	}
	return cards
}

// Return pushes cards back into the deck and reshuffles, so returned cards
// cannot be tracked by position.
func (d *Deck) Return(cards ...Card) {
	d.cards = append(d.cards, cards...)
	d.Shuffle()
}

// Remaining returns the number of cards left.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Empty reports whether the deck has no cards left.
func (d *Deck) Empty() bool {
	return len(d.cards) == 0
}

// Cards returns a copy of the current deck order, top last. Used by
// conservation checks and tests, never by game rules.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
