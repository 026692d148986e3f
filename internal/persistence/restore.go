package persistence

import (
	"context"

	"github.com/EO-DataHub/eodhp-staff-directory/internal/directory"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/projects"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/team"
	"github.com/rs/zerolog"
)

// Restored is the state recovered from storage. Every slice is usable: a
// slice that was missing, unreadable or not whitelisted holds its empty
// initial state.
type Restored struct {
	Directory directory.State
	Team      team.State
	Projects  projects.State
	// Found lists the slices actually recovered from storage.
	Found []Slice
}

func emptyRestored() Restored {
	return Restored{
		Directory: directory.NewState(),
		Team:      team.NewState(),
		Projects:  projects.NewState(),
	}
}

// Restore reads the snapshot under key. It never fails: read or decode
// errors are logged and the empty state is returned instead.
func Restore(ctx context.Context, storage Storage, key string, wl Whitelist, log *zerolog.Logger) Restored {
	out := emptyRestored()

	data, ok, err := storage.Get(ctx, key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to read persisted state, starting empty")
		return out
	}
	if !ok {
		log.Info().Str("key", key).Msg("no persisted state found")
		return out
	}

	snap, err := Decode(data)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("persisted state is unreadable, starting empty")
		return out
	}

	if snap.Directory != nil && wl.Has(SliceDirectory) {
		out.Directory = *snap.Directory
		if out.Directory.People == nil {
			out.Directory.People = directory.NewState().People
		}
		out.Found = append(out.Found, SliceDirectory)
	}
	if snap.Team != nil && wl.Has(SliceTeam) {
		out.Team = *snap.Team
		if out.Team.Members == nil {
			out.Team = team.NewState()
		}
		out.Found = append(out.Found, SliceTeam)
	}
	if snap.Projects != nil && wl.Has(SliceProjects) {
		out.Projects = *snap.Projects
		if out.Projects.List == nil {
			out.Projects = projects.NewState()
		}
		out.Found = append(out.Found, SliceProjects)
	}

	log.Info().Str("key", key).Interface("slices", out.Found).Msg("restored persisted state")
	return out
}
