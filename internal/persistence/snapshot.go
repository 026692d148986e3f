// Package persistence snapshots whitelisted state slices to durable
// key-value storage and restores them on start.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/EO-DataHub/eodhp-staff-directory/internal/directory"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/projects"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/team"
)

// DefaultKey is the root storage key holding the snapshot.
const DefaultKey = "persist:root"

// SnapshotVersion is written into every snapshot.
const SnapshotVersion = 1

// Storage is the durable key-value collaborator. Get reports ok=false when
// the key has never been written.
type Storage interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Slice names a persistable part of the state.
type Slice string

const (
	SliceDirectory Slice = "directory"
	SliceTeam      Slice = "team"
	SliceProjects  Slice = "projects"
)

// DefaultWhitelist keeps user-curated data and treats the directory cache as
// ephemeral.
var DefaultWhitelist = []Slice{SliceTeam, SliceProjects}

// Whitelist is the set of slices written to storage.
type Whitelist map[Slice]bool

// NewWhitelist validates slice names. An empty list yields DefaultWhitelist.
func NewWhitelist(names ...string) (Whitelist, error) {
	wl := Whitelist{}
	if len(names) == 0 {
		for _, s := range DefaultWhitelist {
			wl[s] = true
		}
		return wl, nil
	}
	for _, n := range names {
		s := Slice(strings.ToLower(strings.TrimSpace(n)))
		switch s {
		case SliceDirectory, SliceTeam, SliceProjects:
			wl[s] = true
		default:
			return nil, fmt.Errorf("unknown state slice %q", n)
		}
	}
	return wl, nil
}

// Has reports whether s is whitelisted.
func (w Whitelist) Has(s Slice) bool { return w[s] }

// Snapshot is the serialized form of the whitelisted slices. Slices left out
// of the whitelist are nil and omitted.
type Snapshot struct {
	Version   int              `json:"version"`
	Directory *directory.State `json:"directory,omitempty"`
	Team      *team.State      `json:"team,omitempty"`
	Projects  *projects.State  `json:"projects,omitempty"`
}

// Build assembles a snapshot of the whitelisted slices.
func Build(wl Whitelist, d directory.State, t team.State, p projects.State) Snapshot {
	s := Snapshot{Version: SnapshotVersion}
	if wl.Has(SliceDirectory) {
		s.Directory = &d
	}
	if wl.Has(SliceTeam) {
		s.Team = &t
	}
	if wl.Has(SliceProjects) {
		s.Projects = &p
	}
	return s
}

func Encode(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}
