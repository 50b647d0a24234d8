// Package packs generates booster packs from a card pool according to
// per-set templates. Generation is deterministic when seeded.
package packs

import (
	"fmt"

	"github.com/DoyleJ11/mtg-draft-backend/internal/cards"
	"github.com/DoyleJ11/mtg-draft-backend/internal/rng"
)

// Pack is one booster dealt to a seat for a round. Mutations are
// copy-on-write: WithoutCard returns a new value.
type Pack struct {
	ID    string       `json:"id"`
	Cards []cards.Card `json:"cards"`
	Round int          `json:"round"`
	Seat  int          `json:"seat"`
}

// Contains reports whether the pack holds the card id.
func (p Pack) Contains(cardID string) bool {
	for _, c := range p.Cards {
		if c.ID == cardID {
			return true
		}
	}
	return false
}

// WithoutCard returns a copy of the pack with the card removed, plus the
// removed card. ok is false when the card is not in the pack.
func (p Pack) WithoutCard(cardID string) (Pack, cards.Card, bool) {
	for i, c := range p.Cards {
		if c.ID == cardID {
			rest := make([]cards.Card, 0, len(p.Cards)-1)
			rest = append(rest, p.Cards[:i]...)
			rest = append(rest, p.Cards[i+1:]...)
			out := p
			out.Cards = rest
			return out, c, true
		}
	}
	return p, cards.Card{}, false
}

// foil replacement weights per rarity, common:uncommon:rare:mythic.
var foilWeights = []struct {
	rarity cards.Rarity
	weight float64
}{
	{cards.RarityCommon, 10},
	{cards.RarityUncommon, 3},
	{cards.RarityRare, 1},
	{cards.RarityMythic, 0.5},
}

// Generator builds packs for one set from a categorized pool.
type Generator struct {
	setCode string
	pool    *cards.Pool
	profile Profile
	rand    *rng.RNG
}

// NewGenerator builds a generator for a set. A non-empty seed makes pack
// contents reproducible across runs; an empty seed draws from crypto/rand.
func NewGenerator(setCode string, pool []cards.Card, seed string) (*Generator, error) {
	var r *rng.RNG
	if seed != "" {
		r = rng.New(seed)
	} else {
		var err error
		r, err = rng.NewRandom()
		if err != nil {
			return nil, fmt.Errorf("seed generator: %w", err)
		}
	}
	return &Generator{
		setCode: setCode,
		pool:    cards.NewPool(pool),
		profile: ProfileFor(setCode),
		rand:    r,
	}, nil
}

// Generate builds one pack for (round, seat). Missing rarity buckets yield
// fewer cards rather than an error.
func (g *Generator) Generate(round, seat int) Pack {
	used := map[string]bool{}
	var drawn []cards.Card
	commonIdx := []int{}

	for _, slot := range g.profile.Template.Slots {
		for i := 0; i < slot.Count; i++ {
			var c cards.Card
			var ok bool
			switch slot.Kind {
			case SlotRarity:
				c, ok = g.drawRarity(slot, used)
			case SlotLand:
				c, ok = g.drawLand(used)
			case SlotSpecial:
				// reserved, currently a no-op
				ok = false
			}
			if !ok {
				continue
			}
			if g.profile.AvoidDuplicates {
				used[c.ID] = true
			}
			if slot.Kind == SlotRarity && slot.Rarity == cards.RarityCommon {
				commonIdx = append(commonIdx, len(drawn))
			}
			drawn = append(drawn, c)
		}
	}

	g.applyFoil(drawn, commonIdx, used)

	g.rand.Shuffle(len(drawn), func(i, j int) {
		drawn[i], drawn[j] = drawn[j], drawn[i]
	})

	return Pack{
		ID:    fmt.Sprintf("%s-r%d-s%d", g.setCode, round, seat),
		Cards: drawn,
		Round: round,
		Seat:  seat,
	}
}

// GenerateRound builds one pack per seat. Duplicate suppression resets at
// each pack boundary, never across packs.
func (g *Generator) GenerateRound(round, players int) []Pack {
	out := make([]Pack, 0, players)
	for seat := 0; seat < players; seat++ {
		out = append(out, g.Generate(round, seat))
	}
	return out
}

func (g *Generator) drawRarity(slot Slot, used map[string]bool) (cards.Card, bool) {
	bucket := g.pool.ByRarity(slot.Rarity)
	if slot.MythicUpgrade > 0 && len(g.pool.Mythics) > 0 && g.rand.Float64() < slot.MythicUpgrade {
		bucket = g.pool.Mythics
	}
	if len(bucket) == 0 && slot.MythicUpgrade > 0 {
		bucket = g.pool.Mythics
	}
	return g.draw(bucket, used)
}

func (g *Generator) drawLand(used map[string]bool) (cards.Card, bool) {
	var basics, lands []cards.Card
	for _, c := range g.pool.Lands {
		if c.IsBasicLand() {
			basics = append(basics, c)
		}
		lands = append(lands, c)
	}
	if g.profile.Template.BasicLand && len(basics) > 0 {
		return g.draw(basics, used)
	}
	return g.draw(lands, used)
}

// draw picks a random card from the bucket, avoiding cards already used in
// this pack. When the whole bucket is used, duplicates are permitted as a
// fallback rather than failing.
func (g *Generator) draw(bucket []cards.Card, used map[string]bool) (cards.Card, bool) {
	if len(bucket) == 0 {
		return cards.Card{}, false
	}
	if g.profile.AvoidDuplicates {
		fresh := make([]cards.Card, 0, len(bucket))
		for _, c := range bucket {
			if !used[c.ID] {
				fresh = append(fresh, c)
			}
		}
		if len(fresh) > 0 {
			bucket = fresh
		}
	}
	return bucket[g.rand.Intn(len(bucket))], true
}

// applyFoil replaces one common slot's card with a rarity-weighted random
// card, keeping the total count unchanged.
func (g *Generator) applyFoil(drawn []cards.Card, commonIdx []int, used map[string]bool) {
	chance := g.profile.Template.FoilChance
	if chance <= 0 || len(commonIdx) == 0 {
		return
	}
	if g.rand.Float64() >= chance {
		return
	}

	total := 0.0
	for _, fw := range foilWeights {
		if len(g.pool.ByRarity(fw.rarity)) > 0 {
			total += fw.weight
		}
	}
	if total == 0 {
		return
	}

	roll := g.rand.Float64() * total
	for _, fw := range foilWeights {
		bucket := g.pool.ByRarity(fw.rarity)
		if len(bucket) == 0 {
			continue
		}
		roll -= fw.weight
		if roll > 0 {
			continue
		}
		if c, ok := g.draw(bucket, used); ok {
			slot := commonIdx[g.rand.Intn(len(commonIdx))]
			drawn[slot] = c
			used[c.ID] = true
		}
		return
	}
}
