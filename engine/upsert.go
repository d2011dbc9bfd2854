package engine

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cinelog/cinelog/database"
	"github.com/cinelog/cinelog/tmdb"
)

// ErrMissingID marks a raw record without an external id. Records like this
// cannot be deduplicated and are skipped.
var ErrMissingID = errors.New("raw record is missing its external id")

// UpsertMedia resolves a raw record against the store by external id. A new
// row is created on first sight, with its genre association built from the
// record. An existing row is returned untouched so locally curated data is
// not clobbered by stale remote values; use EnrichMedia or ImportCredits to
// re-apply associations explicitly.
func (e *Engine) UpsertMedia(ctx context.Context, rec *tmdb.Record, mediaType database.MediaType) (*database.Media, bool, error) {
	if rec == nil || rec.ID == 0 {
		return nil, false, ErrMissingID
	}

	existing, err := e.db.GetMediaByTmdbID(ctx, rec.ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up media %d: %w", rec.ID, err)
	}

	media := newMediaFromRecord(rec, mediaType)
	err = e.db.CreateMedia(ctx, media)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent importer created the row first; the existing row wins.
		existing, lookupErr := e.db.GetMediaByTmdbID(ctx, rec.ID)
		if lookupErr != nil {
			return nil, false, fmt.Errorf("failed to resolve media %d after duplicate insert: %w", rec.ID, lookupErr)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to create media %d: %w", rec.ID, err)
	}

	if err := e.applyGenres(ctx, media, rec.Genres, rec.GenreIDs); err != nil {
		return nil, false, fmt.Errorf("failed to apply genres for media %d: %w", rec.ID, err)
	}

	return media, true, nil
}

// applyGenres rebuilds the genre association from whichever input shape is
// present. A full genres list is authoritative and creates unknown genres on
// first sight; bare genre ids are only resolved against existing genre rows
// and unmatched ids are dropped.
func (e *Engine) applyGenres(ctx context.Context, media *database.Media, genres []tmdb.GenreRef, genreIDs []int64) error {
	switch {
	case len(genres) > 0:
		resolved := make([]database.Genre, 0, len(genres))
		for _, ref := range genres {
			genre, err := e.db.GetOrCreateGenre(ctx, ref.ID, ref.Name)
			if err != nil {
				return err
			}
			resolved = append(resolved, *genre)
		}
		return e.db.SetMediaGenres(ctx, media, resolved)
	case len(genreIDs) > 0:
		resolved, err := e.db.GetGenresByTmdbIDs(ctx, genreIDs)
		if err != nil {
			return err
		}
		return e.db.SetMediaGenres(ctx, media, resolved)
	}
	return nil
}

// EnrichMedia fetches the detail record of a media item and applies the
// detail-only fields, the authoritative genre list and the credits. Safe to
// call repeatedly; each call replaces the previous credit set.
func (e *Engine) EnrichMedia(ctx context.Context, media *database.Media) error {
	if err := e.limiter.wait(ctx); err != nil {
		return err
	}

	details, err := e.tmdb.Details(ctx, tmdb.MediaType(media.MediaType), media.TmdbID)
	if err != nil {
		return fmt.Errorf("failed to fetch details for media %d: %w", media.TmdbID, err)
	}

	var seasonCount, episodeCount *int32
	if media.MediaType == database.MediaTypeTV {
		seasonCount = details.NumberOfSeasons
		episodeCount = details.NumberOfEpisodes
	}
	if err := e.db.UpdateMediaDetails(ctx, media.ID, details.Runtime, seasonCount, episodeCount); err != nil {
		return fmt.Errorf("failed to update details for media %d: %w", media.TmdbID, err)
	}

	if err := e.applyGenres(ctx, media, details.Genres, nil); err != nil {
		return fmt.Errorf("failed to apply genres for media %d: %w", media.TmdbID, err)
	}

	if details.Credits != nil {
		if err := e.ImportCredits(ctx, media, details.Credits); err != nil {
			return err
		}
	}

	return nil
}
