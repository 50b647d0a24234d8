package engine

import (
	"errors"
	"strings"

	"github.com/DoyleJ11/mtg-draft-backend/internal/cards"
	"github.com/DoyleJ11/mtg-draft-backend/internal/rng"
)

// PickContext gives a picker the situational facts around a decision.
type PickContext struct {
	Round     int
	Pick      int
	Seat      int
	Direction Direction
	Players   int
}

// Decision is a picker's answer: exactly one card from the available set,
// plus a confidence in (0,1] used for observability only.
type Decision struct {
	Card       cards.Card
	Confidence float64
}

// Picker chooses one card for a bot. Implementations may use any heuristic;
// determinism is not required since bot picks are recorded in history.
type Picker interface {
	Pick(available, picked []cards.Card, ctx PickContext, personality Personality) (Decision, error)
}

// HeuristicPicker is the built-in rule-based picker: rarity base score,
// color commitment toward already-picked colors, and personality-scaled
// noise. Not safe for concurrent use.
type HeuristicPicker struct {
	rand *rng.RNG
}

// NewHeuristicPicker builds the default picker. An empty seed gives a
// non-deterministic picker.
func NewHeuristicPicker(seed string) (*HeuristicPicker, error) {
	if seed != "" {
		return &HeuristicPicker{rand: rng.New(seed)}, nil
	}
	r, err := rng.NewRandom()
	if err != nil {
		return nil, err
	}
	return &HeuristicPicker{rand: r}, nil
}

var rarityScores = map[cards.Rarity]float64{
	cards.RarityCommon:   40,
	cards.RarityUncommon: 55,
	cards.RarityRare:     70,
	cards.RarityMythic:   85,
	cards.RaritySpecial:  70,
}

// Pick ranks the available cards and usually takes the best one; lower
// skill tiers sometimes take the second or third.
func (h *HeuristicPicker) Pick(available, picked []cards.Card, ctx PickContext, personality Personality) (Decision, error) {
	if len(available) == 0 {
		return Decision{}, errors.New("no cards available")
	}

	prof := personality.Profile()
	pickedColors := map[string]bool{}
	for _, c := range picked {
		for _, col := range c.ColorIdentity {
			pickedColors[col] = true
		}
	}

	type ranked struct {
		card  cards.Card
		score float64
	}
	rankings := make([]ranked, 0, len(available))
	for _, c := range available {
		rankings = append(rankings, ranked{card: c, score: h.score(c, pickedColors, prof)})
	}
	for i := 1; i < len(rankings); i++ {
		for j := i; j > 0 && rankings[j].score > rankings[j-1].score; j-- {
			rankings[j], rankings[j-1] = rankings[j-1], rankings[j]
		}
	}

	idx := 0
	if h.rand.Float64() >= prof.Skill && len(rankings) > 1 {
		// off-skill picks drift to the 2nd or 3rd best
		roll := h.rand.Float64()
		switch {
		case roll < 0.6 || len(rankings) < 3:
			idx = 1
		default:
			idx = 2
		}
	}

	chosen := rankings[idx]
	return Decision{
		Card:       chosen.card,
		Confidence: h.confidence(chosen.card, prof, len(available)),
	}, nil
}

func (h *HeuristicPicker) score(c cards.Card, pickedColors map[string]bool, prof PersonalityProfile) float64 {
	score := rarityScores[c.Rarity]

	if strings.Contains(strings.ToLower(c.TypeLine), "creature") {
		score += 5
	}
	oracle := strings.ToLower(c.OracleText)
	for _, word := range []string{"destroy", "exile", "damage", "counter"} {
		if strings.Contains(oracle, word) {
			score += 10
			break
		}
	}

	if c.Rarity == cards.RarityRare || c.Rarity == cards.RarityMythic {
		score *= prof.RareBias
	}

	if len(pickedColors) > 0 && len(c.ColorIdentity) > 0 {
		matched := 0
		for _, col := range c.ColorIdentity {
			if pickedColors[col] {
				matched++
			}
		}
		score += float64(matched) / float64(len(c.ColorIdentity)) * prof.ColorCommitment * 10
	}

	score += (h.rand.Float64()*2 - 1) * prof.Randomness * 20
	return score
}

// confidence derives the observability score: base skill, a bump for
// top-rarity cards, and a bump for having fewer alternatives.
func (h *HeuristicPicker) confidence(c cards.Card, prof PersonalityProfile, alternatives int) float64 {
	conf := prof.Skill
	if c.Rarity == cards.RarityRare || c.Rarity == cards.RarityMythic {
		conf += 0.15
	}
	if alternatives <= 3 {
		conf += 0.1
	}
	if conf > 1 {
		conf = 1
	}
	if conf <= 0 {
		conf = 0.05
	}
	return conf
}
