package engine

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/cinelog/cinelog/database"
	"github.com/cinelog/cinelog/tmdb"
)

// SyncSummary counts the outcome of a category sync. Per-record and per-page
// failures are counted, never fatal.
type SyncSummary struct {
	Pages    int
	Created  int
	Existing int
	Skipped  int
	Enriched int
}

func (s *SyncSummary) add(other *SyncSummary) {
	s.Pages += other.Pages
	s.Created += other.Created
	s.Existing += other.Existing
	s.Skipped += other.Skipped
	s.Enriched += other.Enriched
}

// SyncGenres imports the genre lists for both media types. Genres are
// reference data; existing rows are left untouched.
func (e *Engine) SyncGenres(ctx context.Context) error {
	for _, mediaType := range []tmdb.MediaType{tmdb.MediaTypeMovie, tmdb.MediaTypeTV} {
		if err := e.limiter.wait(ctx); err != nil {
			return err
		}
		genres, err := e.tmdb.Genres(ctx, mediaType)
		if err != nil {
			log.Warn("failed to fetch genre list, skipping", "mediaType", mediaType, "error", err)
			continue
		}
		for _, ref := range genres {
			if _, err := e.db.GetOrCreateGenre(ctx, ref.ID, ref.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// SyncCategory imports up to pages pages of one category listing. A failed
// page fetch skips that page; a failed record import skips that record. With
// withDetails set, newly created titles are enriched with full details and
// credits.
func (e *Engine) SyncCategory(ctx context.Context, mediaType database.MediaType, category tmdb.Category, pages int, withDetails bool) (*SyncSummary, error) {
	summary := &SyncSummary{}

	for page := 1; page <= pages; page++ {
		if err := e.limiter.wait(ctx); err != nil {
			return summary, err
		}

		result, err := e.tmdb.ListByCategory(ctx, tmdb.MediaType(mediaType), category, page)
		if err != nil {
			log.Warn("failed to fetch page, skipping",
				"mediaType", mediaType, "category", category, "page", page, "error", err)
			continue
		}
		summary.Pages++

		for i := range result.Results {
			if err := ctx.Err(); err != nil {
				return summary, err
			}

			rec := &result.Results[i]
			media, created, err := e.UpsertMedia(ctx, rec, mediaType)
			if errors.Is(err, ErrMissingID) {
				summary.Skipped++
				log.Debug("skipping record without external id",
					"mediaType", mediaType, "category", category, "page", page)
				continue
			}
			if err != nil {
				summary.Skipped++
				log.Error("failed to import record, skipping",
					"mediaType", mediaType, "tmdbID", rec.ID, "error", err)
				continue
			}

			if !created {
				summary.Existing++
				continue
			}
			summary.Created++

			if withDetails {
				if err := e.EnrichMedia(ctx, media); err != nil {
					if ctx.Err() != nil {
						return summary, ctx.Err()
					}
					log.Warn("failed to enrich media, skipping details",
						"mediaType", mediaType, "tmdbID", media.TmdbID, "error", err)
					continue
				}
				summary.Enriched++
			}
		}

		if result.TotalPages > 0 && page >= result.TotalPages {
			break
		}
	}

	return summary, nil
}

// SyncAll refreshes genres and all configured category listings. Movie and
// tv work runs concurrently; distinct external ids never share state, and
// the shared throttle keeps the outbound call rate in check.
func (e *Engine) SyncAll(ctx context.Context) error {
	if err := e.SyncGenres(ctx); err != nil {
		return err
	}

	var movieSummary, tvSummary SyncSummary
	withDetails := e.cfg.Sync.IncludeDetails

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		categories := []struct {
			category tmdb.Category
			pages    int
		}{
			{tmdb.CategoryPopular, e.cfg.Sync.MoviePages},
			{tmdb.CategoryTopRated, e.cfg.Sync.TopRatedPages},
			{tmdb.CategoryNowPlaying, e.cfg.Sync.NowPlayingPages},
		}
		for _, c := range categories {
			if c.pages <= 0 {
				continue
			}
			summary, err := e.SyncCategory(gctx, database.MediaTypeMovie, c.category, c.pages, withDetails)
			if err != nil {
				return err
			}
			movieSummary.add(summary)
		}
		return nil
	})
	g.Go(func() error {
		if e.cfg.Sync.TVPages <= 0 {
			return nil
		}
		summary, err := e.SyncCategory(gctx, database.MediaTypeTV, tmdb.CategoryPopular, e.cfg.Sync.TVPages, withDetails)
		if err != nil {
			return err
		}
		tvSummary.add(summary)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("catalog sync completed",
		"moviePages", movieSummary.Pages, "moviesCreated", movieSummary.Created,
		"moviesSkipped", movieSummary.Skipped,
		"tvPages", tvSummary.Pages, "tvCreated", tvSummary.Created,
		"tvSkipped", tvSummary.Skipped,
	)
	return nil
}
