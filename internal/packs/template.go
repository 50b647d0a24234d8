package packs

import "github.com/DoyleJ11/mtg-draft-backend/internal/cards"

// SlotKind distinguishes the three template slot behaviors.
type SlotKind string

const (
	SlotRarity  SlotKind = "rarity"
	SlotLand    SlotKind = "land"
	SlotSpecial SlotKind = "special"
)

// Slot is one declarative entry of a pack template.
type Slot struct {
	Kind   SlotKind
	Rarity cards.Rarity // for SlotRarity
	Count  int
	// MythicUpgrade gives the rare slot its chance of upgrading to mythic
	// when mythics exist in the pool. 0 means never.
	MythicUpgrade float64
}

// Template declares how a booster is assembled, in slot order.
type Template struct {
	Slots []Slot
	// TotalCards is informational; actual size follows from the slots.
	TotalCards int
	// FoilChance replaces one common slot's card with a weighted-random
	// card of any rarity.
	FoilChance float64
	// BasicLand marks templates whose land slot draws basic lands.
	BasicLand bool
}

// Profile binds a template to per-set generation behavior.
type Profile struct {
	Template        Template
	AvoidDuplicates bool
	// ColorBalance is a placeholder; no set enables it yet.
	ColorBalance bool
}

// standard 15-card booster: 11 commons (one foil-eligible), 3 uncommons,
// 1 rare with a 1-in-8 mythic upgrade. No land slot; set profiles that
// want one declare it themselves.
var defaultProfile = Profile{
	Template: Template{
		Slots: []Slot{
			{Kind: SlotRarity, Rarity: cards.RarityCommon, Count: 11},
			{Kind: SlotRarity, Rarity: cards.RarityUncommon, Count: 3},
			{Kind: SlotRarity, Rarity: cards.RarityRare, Count: 1, MythicUpgrade: 1.0 / 8.0},
			{Kind: SlotSpecial, Count: 0},
		},
		TotalCards: 15,
		FoilChance: 1.0 / 3.0,
	},
	AvoidDuplicates: true,
}

// registry maps set codes to their generation profiles. Sets not listed here
// use the default profile.
var registry = map[string]Profile{
	"DTK": defaultProfile,
	"KTK": defaultProfile,
	"FRF": defaultProfile,
}

// ProfileFor returns the generation profile for a set code.
func ProfileFor(setCode string) Profile {
	if p, ok := registry[setCode]; ok {
		return p
	}
	return defaultProfile
}
