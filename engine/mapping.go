package engine

import (
	"time"

	"github.com/cinelog/cinelog/database"
	"github.com/cinelog/cinelog/tmdb"
)

const releaseDateLayout = "2006-01-02"

// newMediaFromRecord maps a raw catalog record onto a media row. The mapping
// is total: missing or invalid dates map to nil, missing numeric fields stay
// at their zero values. Movie and tv records carry the same concepts under
// different field names, so the media type picks which set applies, with the
// other set as fallback for mixed-type payloads like multi search results.
func newMediaFromRecord(rec *tmdb.Record, mediaType database.MediaType) *database.Media {
	media := &database.Media{
		TmdbID:           rec.ID,
		Overview:         rec.Overview,
		PosterPath:       rec.PosterPath,
		BackdropPath:     rec.BackdropPath,
		MediaType:        mediaType,
		VoteAverage:      rec.VoteAverage,
		VoteCount:        rec.VoteCount,
		Popularity:       rec.Popularity,
		OriginalLanguage: rec.OriginalLanguage,
	}

	switch mediaType {
	case database.MediaTypeTV:
		media.Title = firstNonEmpty(rec.Name, rec.Title)
		media.OriginalTitle = firstNonEmpty(rec.OriginalName, rec.OriginalTitle)
		media.ReleaseDate = parseReleaseDate(firstNonEmpty(rec.FirstAirDate, rec.ReleaseDate))
		media.SeasonCount = rec.NumberOfSeasons
		media.EpisodeCount = rec.NumberOfEpisodes
	default:
		media.Title = firstNonEmpty(rec.Title, rec.Name)
		media.OriginalTitle = firstNonEmpty(rec.OriginalTitle, rec.OriginalName)
		media.ReleaseDate = parseReleaseDate(firstNonEmpty(rec.ReleaseDate, rec.FirstAirDate))
		media.Runtime = rec.Runtime
	}

	return media
}

// parseReleaseDate parses a catalog date string, mapping empty or malformed
// values to nil.
func parseReleaseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(releaseDateLayout, value)
	if err != nil {
		return nil
	}
	return &t
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
