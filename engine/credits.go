package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/cinelog/cinelog/database"
	"github.com/cinelog/cinelog/tmdb"
)

// maxCastMembers caps the cast at the top billed entries.
const maxCastMembers = 10

// crewJobs is the allow-list of crew job titles worth keeping.
var crewJobs = []string{"Director", "Writer", "Screenplay", "Producer", "Executive Producer"}

// ImportCredits replaces all cast and crew rows of a media item with the
// given credits. Rebuilds for the same media are serialized, so two
// concurrent enrichment passes cannot interleave their delete and insert
// phases.
func (e *Engine) ImportCredits(ctx context.Context, media *database.Media, credits *tmdb.Credits) error {
	unlock := e.locks.lock(media.ID)
	defer unlock()

	cast := buildCast(credits.Cast)
	crew := buildCrew(credits.Crew)

	if err := e.db.ReplaceCredits(ctx, media.ID, cast, crew); err != nil {
		return fmt.Errorf("failed to replace credits for media %d: %w", media.TmdbID, err)
	}
	return nil
}

// buildCast keeps the first maxCastMembers entries in input order and maps
// them to cast rows ordered by billing position.
func buildCast(members []tmdb.CastMember) []database.Cast {
	if len(members) > maxCastMembers {
		members = members[:maxCastMembers]
	}

	cast := make([]database.Cast, 0, len(members))
	for _, member := range members {
		personID := member.ID
		cast = append(cast, database.Cast{
			Name:         member.Name,
			Character:    member.Character,
			ProfilePath:  member.ProfilePath,
			TmdbPersonID: &personID,
			Position:     member.Order,
		})
	}
	sort.SliceStable(cast, func(i, j int) bool {
		return cast[i].Position < cast[j].Position
	})
	return cast
}

// buildCrew filters crew entries to the allow-listed jobs and deduplicates
// by (person, job), so the same person may appear under multiple qualifying
// jobs but never twice under the same one.
func buildCrew(members []tmdb.CrewMember) []database.Crew {
	qualifying := lo.Filter(members, func(member tmdb.CrewMember, _ int) bool {
		return lo.Contains(crewJobs, member.Job)
	})
	qualifying = lo.UniqBy(qualifying, func(member tmdb.CrewMember) string {
		return fmt.Sprintf("%d/%s", member.ID, member.Job)
	})

	crew := make([]database.Crew, 0, len(qualifying))
	for _, member := range qualifying {
		personID := member.ID
		crew = append(crew, database.Crew{
			Name:         member.Name,
			Job:          member.Job,
			Department:   member.Department,
			ProfilePath:  member.ProfilePath,
			TmdbPersonID: &personID,
		})
	}
	return crew
}
