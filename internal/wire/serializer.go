// Package wire serializes draft sessions to a versioned JSON document and
// reconstructs them by replaying the saved action history. Packs and player
// pools are never serialized directly; replay rebuilds them.
package wire

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DoyleJ11/mtg-draft-backend/internal/cards"
	"github.com/DoyleJ11/mtg-draft-backend/internal/engine"
	"github.com/cespare/xxhash/v2"
)

const (
	// VersionBasic is the original format: id, config, history, timestamp.
	VersionBasic = "1.0.0"
	// VersionEnhanced adds metadata, checksum and a format tag.
	VersionEnhanced = "1.1.0"

	formatEnhanced = "enhanced"
)

// SupportedVersions is the allow-list; anything else is rejected outright.
var SupportedVersions = []string{VersionBasic, VersionEnhanced}

var (
	ErrSerialize           = errors.New("serialization failed")
	ErrDeserialize         = errors.New("deserialization failed")
	ErrIncompatibleVersion = errors.New("incompatible version")
	ErrChecksumMismatch    = errors.New("checksum mismatch")
	ErrReplayFailed        = errors.New("history replay failed")
)

// IncompatibleVersionError reports an unrecognized document version.
type IncompatibleVersionError struct {
	Version   string
	Supported []string
}

func (e *IncompatibleVersionError) Error() string {
	return fmt.Sprintf("version %q not supported (supported: %s)", e.Version, strings.Join(e.Supported, ", "))
}

func (e *IncompatibleVersionError) Unwrap() error { return ErrIncompatibleVersion }

// Metadata is the enhanced format's summary block.
type Metadata struct {
	PlayerCount      int                  `json:"playerCount"`
	SetCode          string               `json:"setCode"`
	TotalPicks       int                  `json:"totalPicks"`
	CompletedRounds  int                  `json:"completedRounds"`
	BotPersonalities []engine.Personality `json:"botPersonalities"`
	StartedAt        time.Time            `json:"startedAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`
}

// Document is the serialized form. Basic documents leave the enhanced
// fields empty.
type Document struct {
	ID        string          `json:"id"`
	Config    engine.Config   `json:"config"`
	History   []engine.Action `json:"history"`
	Timestamp time.Time       `json:"timestamp"`
	Version   string          `json:"version"`

	Metadata *Metadata `json:"metadata,omitempty"`
	Checksum string    `json:"checksum,omitempty"`
	Format   string    `json:"format,omitempty"`
}

// Options controls serialization.
type Options struct {
	// IncludeSetData keeps the (potentially large) card pool in the
	// document. When false the loader must re-supply it.
	IncludeSetData bool
}

// LoadOptions controls deserialization.
type LoadOptions struct {
	// CardPool re-supplies set data omitted at serialization time.
	CardPool []cards.Card
	// Picker replaces the bot adapter on the restored session.
	Picker engine.Picker
}

// Serialize produces a basic (1.0.0) document without a checksum.
func Serialize(s engine.Session, opts Options) ([]byte, error) {
	doc := baseDocument(s, opts)
	doc.Version = VersionBasic

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	return data, nil
}

// SerializeEnhanced produces a 1.1.0 document with metadata and an
// integrity checksum.
func SerializeEnhanced(s engine.Session, opts Options) ([]byte, error) {
	doc := baseDocument(s, opts)
	doc.Version = VersionEnhanced
	doc.Format = formatEnhanced
	doc.Metadata = buildMetadata(s)

	sum, err := checksum(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	doc.Checksum = sum

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	return data, nil
}

// Deserialize parses, gates the version, verifies integrity, migrates and
// replays. Any failure returns before a session exists; there is no
// partial load.
func Deserialize(data []byte, opts LoadOptions) (engine.Session, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return engine.Session{}, fmt.Errorf("%w: %v", ErrDeserialize, err)
	}

	if !versionSupported(doc.Version) {
		return engine.Session{}, &IncompatibleVersionError{Version: doc.Version, Supported: SupportedVersions}
	}

	if doc.Format == formatEnhanced || doc.Checksum != "" {
		if err := verifyChecksum(data, doc.Checksum); err != nil {
			return engine.Session{}, err
		}
	}

	doc = migrate(doc)

	if len(doc.Config.CardPool) == 0 && len(opts.CardPool) > 0 {
		doc.Config.CardPool = opts.CardPool
	}

	var sessionOpts []engine.Option
	if opts.Picker != nil {
		sessionOpts = append(sessionOpts, engine.WithPicker(opts.Picker))
	}

	s, err := engine.Replay(doc.ID, doc.Config, doc.History, sessionOpts...)
	if err != nil {
		return engine.Session{}, fmt.Errorf("%w: %v", ErrReplayFailed, err)
	}
	return s, nil
}

func baseDocument(s engine.Session, opts Options) Document {
	cfg := s.State().Config
	if !opts.IncludeSetData {
		cfg.CardPool = nil
	}
	return Document{
		ID:        s.ID(),
		Config:    cfg,
		History:   s.History(),
		Timestamp: time.Now().UTC(),
	}
}

func buildMetadata(s engine.Session) *Metadata {
	st := s.State()

	totalPicks := 0
	for _, p := range st.Players {
		totalPicks += len(p.Picked)
	}

	completed := st.Round - 1
	if st.Status == engine.StatusComplete {
		completed = engine.TotalRounds
	}
	if completed < 0 {
		completed = 0
	}

	var personalities []engine.Personality
	for _, p := range st.Players {
		if !p.Human {
			personalities = append(personalities, p.Personality)
		}
	}

	return &Metadata{
		PlayerCount:      len(st.Players),
		SetCode:          st.Config.SetCode,
		TotalPicks:       totalPicks,
		CompletedRounds:  completed,
		BotPersonalities: personalities,
		StartedAt:        st.CreatedAt,
		UpdatedAt:        st.UpdatedAt,
	}
}

func versionSupported(v string) bool {
	for _, s := range SupportedVersions {
		if s == v {
			return true
		}
	}
	return false
}

// migrate lifts a known-old document to the current version. No structural
// change has been needed yet, so this only rewrites the version tag.
func migrate(doc Document) Document {
	if doc.Version == VersionBasic {
		doc.Version = VersionEnhanced
	}
	return doc
}

// checksum hashes the canonical rendering of the document minus the
// checksum field itself.
func checksum(doc Document) (string, error) {
	doc.Checksum = ""
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return checksumRaw(raw)
}

func verifyChecksum(data []byte, want string) error {
	got, err := checksumRaw(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeserialize, err)
	}
	if got != want {
		return fmt.Errorf("%w: got %s, document says %s", ErrChecksumMismatch, got, want)
	}
	return nil
}

// checksumRaw canonicalizes decoded JSON with the checksum field removed
// and hashes the rendering.
func checksumRaw(data []byte) (string, error) {
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", err
	}
	delete(decoded, "checksum")

	var sb strings.Builder
	if err := canonicalize(decoded, &sb); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(sb.String())), nil
}
