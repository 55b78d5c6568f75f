package places

import (
	"context"
	"encoding/json"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/homescout/homescout/internal/cache"
	apperrors "github.com/homescout/homescout/internal/errors"
	"github.com/homescout/homescout/internal/telemetry"
)

// cacheKeyPrefix namespaces POI entries within the shared cache store.
const cacheKeyPrefix = "pois_"

// Searcher is the paginated text-search dependency; satisfied by *Client.
type Searcher interface {
	Search(ctx context.Context, query, location string) ([]POI, error)
}

// Service fetches the per-location POI set, backed by the cache store.
type Service struct {
	searcher Searcher
	store    cache.Store
}

// NewService creates a POI service over the given searcher and cache store.
func NewService(searcher Searcher, store cache.Store) *Service {
	return &Service{searcher: searcher, store: store}
}

// CacheKey derives the deterministic cache key for a location.
func CacheKey(location string) string {
	return cacheKeyPrefix + strings.Join(strings.Fields(location), "_")
}

// GetPOIs returns the school and clinic lists for a location. A cache hit is
// returned verbatim; on a miss the two category searches run concurrently,
// results are tagged with their source category, and the combined structure
// is persisted before returning.
func (s *Service) GetPOIs(ctx context.Context, location string) (*POISet, error) {
	logger := telemetry.GetContextualLogger(ctx).WithFields(map[string]interface{}{
		"operation": "get_pois",
		"location":  location,
		"service":   "places",
	})

	key := CacheKey(location)

	if payload, ok := s.store.Get(ctx, key); ok {
		var set POISet
		if err := json.Unmarshal(payload, &set); err == nil {
			logger.WithFields(map[string]interface{}{
				"schools": len(set.Schools),
				"clinics": len(set.Clinics),
			}).Debug("POI cache hit")
			return &set, nil
		}
		logger.Warn("Cached POI payload did not unmarshal, refetching")
	}

	var set POISet
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		schools, err := s.searcher.Search(groupCtx, schoolQuery, location)
		if err != nil {
			return err
		}
		set.Schools = tagCategory(schools, CategorySchool)
		return nil
	})
	group.Go(func() error {
		clinics, err := s.searcher.Search(groupCtx, clinicQuery, location)
		if err != nil {
			return err
		}
		set.Clinics = tagCategory(clinics, CategoryClinic)
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, apperrors.NewPlacesError("search", err)
	}

	payload, err := json.Marshal(set)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode POI set", err)
	}
	if err := s.store.Set(ctx, key, payload); err != nil {
		// A failed cache write must not fail the request; the data is a
		// recomputable snapshot of external state.
		logger.WithError(err).Error("Failed to persist POI set to cache")
	}

	logger.WithFields(map[string]interface{}{
		"schools": len(set.Schools),
		"clinics": len(set.Clinics),
	}).Info("POI set fetched")
	return &set, nil
}

func tagCategory(pois []POI, category string) []POI {
	for i := range pois {
		pois[i].Category = category
	}
	return pois
}
