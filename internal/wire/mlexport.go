package wire

import (
	"encoding/json"
	"fmt"

	"github.com/DoyleJ11/mtg-draft-backend/internal/engine"
)

// PickSample is one training row: a MakePick enriched with the situation
// it was made in. The export is one-way; there is no importer.
type PickSample struct {
	DraftID     string             `json:"draftId"`
	Round       int                `json:"round"`
	Pick        int                `json:"pick"`
	Seat        int                `json:"seat"`
	PlayerID    string             `json:"playerId"`
	Human       bool               `json:"human"`
	Personality engine.Personality `json:"personality,omitempty"`
	CardID      string             `json:"cardId"`
	PackSize    int                `json:"packSize"`
}

// ExportPicks extracts every MakePick in history, replaying the session
// step by step to recover round, pick number and seat at pick time.
func ExportPicks(s engine.Session) ([]byte, error) {
	cur, err := engine.Replay(s.ID(), s.State().Config, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialize, err)
	}

	var samples []PickSample
	for i, a := range s.History() {
		if a.Type == engine.ActionMakePick {
			st := cur.State()
			player := st.PlayerByID(a.PlayerID)
			if player == nil {
				return nil, fmt.Errorf("%w: history action %d names unknown player %s", ErrSerialize, i, a.PlayerID)
			}
			sample := PickSample{
				DraftID:     s.ID(),
				Round:       st.Round,
				Pick:        player.RoundPicks + 1,
				Seat:        player.Seat,
				PlayerID:    player.ID,
				Human:       player.Human,
				Personality: player.Personality,
				CardID:      a.CardID,
			}
			if pack := player.CurrentPack(); pack != nil {
				sample.PackSize = len(pack.Cards)
			}
			samples = append(samples, sample)
		}

		cur, err = cur.ApplyRecorded(a)
		if err != nil {
			return nil, fmt.Errorf("%w: replay action %d: %v", ErrSerialize, i, err)
		}
	}

	data, err := json.Marshal(samples)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	return data, nil
}
