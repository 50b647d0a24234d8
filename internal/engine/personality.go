package engine

// Personality is a bot skill tier. The set is closed; Valid gates any
// string coming in from config or the wire.
type Personality string

const (
	PersonalityBronze Personality = "bronze"
	PersonalitySilver Personality = "silver"
	PersonalityGold   Personality = "gold"
	PersonalityMythic Personality = "mythic"
)

// PersonalityProfile tunes a bot's pick behavior.
type PersonalityProfile struct {
	Name            string
	Skill           float64 // chance of taking the top-ranked card
	Randomness      float64 // score noise scale
	RareBias        float64 // multiplier on rare/mythic scores
	ColorCommitment float64 // weight of staying in picked colors
}

var personalityProfiles = map[Personality]PersonalityProfile{
	PersonalityBronze: {Name: "Bronze Bot", Skill: 0.3, Randomness: 0.4, RareBias: 1.5, ColorCommitment: 0.5},
	PersonalitySilver: {Name: "Silver Bot", Skill: 0.5, Randomness: 0.3, RareBias: 1.2, ColorCommitment: 0.7},
	PersonalityGold:   {Name: "Gold Bot", Skill: 0.7, Randomness: 0.2, RareBias: 1.0, ColorCommitment: 0.85},
	PersonalityMythic: {Name: "Mythic Bot", Skill: 0.9, Randomness: 0.1, RareBias: 0.9, ColorCommitment: 0.95},
}

// Valid reports whether p is one of the known tiers.
func (p Personality) Valid() bool {
	_, ok := personalityProfiles[p]
	return ok
}

// Profile returns the tuning for p, defaulting to silver for unknown tiers.
func (p Personality) Profile() PersonalityProfile {
	if prof, ok := personalityProfiles[p]; ok {
		return prof
	}
	return personalityProfiles[PersonalitySilver]
}
