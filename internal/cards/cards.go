// Package cards holds the immutable card value types shared across the engine.
package cards

import "strings"

// Rarity buckets used by pack templates and bot scoring.
type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
	RarityMythic   Rarity = "mythic"
	RaritySpecial  Rarity = "special"
)

// Card is an immutable value. Never mutated after creation; copies are cheap
// and shared freely between packs and player pools.
type Card struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Rarity          Rarity            `json:"rarity"`
	TypeLine        string            `json:"typeLine"`
	ManaCost        string            `json:"manaCost,omitempty"`
	CMC             float64           `json:"cmc"`
	Colors          []string          `json:"colors,omitempty"`
	ColorIdentity   []string          `json:"colorIdentity,omitempty"`
	OracleText      string            `json:"oracleText,omitempty"`
	Power           string            `json:"power,omitempty"`
	Toughness       string            `json:"toughness,omitempty"`
	CollectorNumber string            `json:"collectorNumber,omitempty"`
	Booster         bool              `json:"booster"`
	ImageURIs       map[string]string `json:"imageUris,omitempty"`
}

// IsLand reports whether the card's type line names a land.
func (c Card) IsLand() bool {
	return strings.Contains(strings.ToLower(c.TypeLine), "land")
}

// IsBasicLand reports whether the card is a basic land.
func (c Card) IsBasicLand() bool {
	tl := strings.ToLower(c.TypeLine)
	return strings.Contains(tl, "basic") && strings.Contains(tl, "land")
}

// Pool is a card pool split by rarity. Cards without the booster flag are
// excluded entirely.
type Pool struct {
	Commons   []Card
	Uncommons []Card
	Rares     []Card
	Mythics   []Card
	Specials  []Card
	Lands     []Card
}

// NewPool categorizes a raw card list into rarity buckets.
func NewPool(all []Card) *Pool {
	p := &Pool{}
	for _, c := range all {
		if !c.Booster {
			continue
		}
		if c.IsLand() {
			p.Lands = append(p.Lands, c)
			continue
		}
		switch c.Rarity {
		case RarityCommon:
			p.Commons = append(p.Commons, c)
		case RarityUncommon:
			p.Uncommons = append(p.Uncommons, c)
		case RarityRare:
			p.Rares = append(p.Rares, c)
		case RarityMythic:
			p.Mythics = append(p.Mythics, c)
		case RaritySpecial:
			p.Specials = append(p.Specials, c)
		}
	}
	return p
}

// ByRarity returns the bucket for a rarity, nil for unknown rarities.
func (p *Pool) ByRarity(r Rarity) []Card {
	switch r {
	case RarityCommon:
		return p.Commons
	case RarityUncommon:
		return p.Uncommons
	case RarityRare:
		return p.Rares
	case RarityMythic:
		return p.Mythics
	case RaritySpecial:
		return p.Specials
	default:
		return nil
	}
}
