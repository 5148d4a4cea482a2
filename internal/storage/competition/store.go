// Package competition persists the whole competition document as a single
// JSON file so restarts keep every wallet and the valuation history.
package competition

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/paperbots/internal/domain"
)

// Store reads and writes the competition state document.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("state file path is required")
	}
	return &Store{path: path}, nil
}

// Load reads the state document from disk. A missing or empty file returns
// nil so the caller can synthesize the initial state. Documents written
// before schema versioning decode as version 0 and are upgraded in memory;
// the next Save rewrites them at the current version.
func (s *Store) Load() (*domain.CompetitionState, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read competition state")
	}

	if len(payload) == 0 {
		return nil, nil
	}

	var state domain.CompetitionState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, errors.Wrap(err, "decode competition state")
	}

	if state.SchemaVersion > domain.SchemaVersion {
		return nil, errors.Errorf("competition state schema version %d is newer than supported %d",
			state.SchemaVersion, domain.SchemaVersion)
	}
	state.SchemaVersion = domain.SchemaVersion

	if state.Bots == nil {
		state.Bots = make(map[string]domain.WalletState)
	}
	if state.History == nil {
		state.History = make([]domain.Snapshot, 0)
	}

	return &state, nil
}

// Save writes the state document to disk atomically via temp file.
func (s *Store) Save(state *domain.CompetitionState) error {
	if state == nil {
		return errors.New("competition state is nil")
	}

	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode competition state")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return errors.Wrap(err, "write competition state temp file")
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "persist competition state")
	}

	return nil
}
