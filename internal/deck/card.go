package deck

import "fmt"

// Kind identifies one of the five character roles. A card's kind alone
// determines its game-mechanical behavior; the theming fields on Card are
// opaque to the rules.
type Kind string

const (
	Duke       Kind = "duke"
	Assassin   Kind = "assassin"
	Captain    Kind = "captain"
	Ambassador Kind = "ambassador"
	Contessa   Kind = "contessa"
)

// Kinds lists every role kind in canonical order.
var Kinds = []Kind{Duke, Assassin, Captain, Ambassador, Contessa}

// Valid reports whether k is one of the five canonical kinds.
func (k Kind) Valid() bool {
	switch k {
	case Duke, Assassin, Captain, Ambassador, Contessa:
		return true
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// Card is a single character card. Name and Description carry themed content
// attached by an external collaborator and never influence legality.
type Card struct {
	ID          string `json:"id"`
	Kind        Kind   `json:"kind"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (c Card) String() string {
	if c.Name != "" && c.Name != string(c.Kind) {
		return fmt.Sprintf("%s (%s)", c.Name, c.Kind)
	}
	return string(c.Kind)
}
