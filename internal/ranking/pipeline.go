package ranking

import (
	"context"
	"math"
	"sort"
	"sync"

	apperrors "github.com/homescout/homescout/internal/errors"
	"github.com/homescout/homescout/internal/geo"
	"github.com/homescout/homescout/internal/geocoding"
	"github.com/homescout/homescout/internal/listings"
	"github.com/homescout/homescout/internal/monitoring"
	"github.com/homescout/homescout/internal/places"
	"github.com/homescout/homescout/internal/telemetry"
)

// sentinel marks POI fields on listings whose address failed to geocode.
const sentinel = "-"

// Geocoder resolves one address; satisfied by *geocoding.Service.
type Geocoder interface {
	Resolve(ctx context.Context, address string) geocoding.Result
}

// POIProvider returns the per-location POI set; satisfied by *places.Service.
type POIProvider interface {
	GetPOIs(ctx context.Context, location string) (*places.POISet, error)
}

// Pipeline runs the filter → geocode → match → sort → select procedure for
// one ranking request.
type Pipeline struct {
	geocoder    Geocoder
	pois        POIProvider
	concurrency int
	metrics     *monitoring.Collector
}

// New creates a Pipeline. concurrency bounds in-flight geocoding calls;
// 1 means the sequential baseline. metrics may be nil.
func New(geocoder Geocoder, pois POIProvider, concurrency int, metrics *monitoring.Collector) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		geocoder:    geocoder,
		pois:        pois,
		concurrency: concurrency,
		metrics:     metrics,
	}
}

// Result holds the selected listings of a completed ranking request.
type Result struct {
	Params   Params
	Listings []*listings.Listing
}

// Run executes the pipeline over raw records. Terminal no-match states come
// back as typed no_match errors; per-record geocoding failures never abort
// the batch.
func (p *Pipeline) Run(ctx context.Context, records []listings.Record, params Params) (*Result, error) {
	params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	logger := telemetry.GetContextualLogger(ctx).WithFields(map[string]interface{}{
		"operation": "rank",
		"location":  params.Location,
		"poi_type":  params.POIType,
		"service":   "ranking",
	})

	// Phase 1: normalize and pre-filter. Geocoding is the expensive step,
	// so price/rooms filtering happens first.
	survivors := make([]*listings.Listing, 0, len(records))
	for _, rec := range records {
		if l, ok := listings.Normalize(rec); ok {
			survivors = append(survivors, l)
		}
	}
	survivors = listings.Filter(survivors, params.MaxPrice, params.MinRooms)

	logger.WithFields(map[string]interface{}{
		"input_rows": len(records),
		"survivors":  len(survivors),
	}).Debug("Normalization and filtering complete")

	// Phase 2: abort check.
	if len(survivors) == 0 {
		return nil, apperrors.NewNoMatchError(apperrors.CodeNoListingsMatch,
			"no listings match the given price and room filters")
	}

	// Phase 3: POI acquisition.
	set, err := p.pois.GetPOIs(ctx, params.Location)
	if err != nil {
		return nil, err
	}
	subset := selectSubset(set, params.POIType)
	if len(subset) == 0 {
		return nil, apperrors.NewNoMatchError(apperrors.CodeNoPOIsFound,
			"no points of interest found for the requested location and type")
	}

	// Phase 4: enrichment.
	p.enrich(ctx, survivors, subset)

	// Phase 5: selection.
	selected := make([]*listings.Listing, 0, len(survivors))
	for _, l := range survivors {
		if !math.IsInf(l.DistanceKm, 0) {
			selected = append(selected, l)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].DistanceKm < selected[j].DistanceKm
	})
	if len(selected) > params.TopN {
		selected = selected[:params.TopN]
	}
	if len(selected) == 0 {
		return nil, apperrors.NewNoMatchError(apperrors.CodeNoGeocodedResults,
			"none of the matching listings could be geocoded")
	}

	logger.WithField("selected", len(selected)).Info("Ranking complete")
	return &Result{Params: params, Listings: selected}, nil
}

// enrich geocodes each listing and records its nearest POI, in place.
// Fan-out is bounded by the configured concurrency; each slot writes only its
// own listing so input order is preserved regardless of completion order.
func (p *Pipeline) enrich(ctx context.Context, items []*listings.Listing, subset []places.POI) {
	candidates := make([]geo.Point, len(subset))
	for i, poi := range subset {
		candidates[i] = geo.Point{Lat: poi.Latitude, Lon: poi.Longitude}
	}

	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup
	for _, l := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(l *listings.Listing) {
			defer wg.Done()
			defer func() { <-sem }()
			p.enrichOne(ctx, l, subset, candidates)
		}(l)
	}
	wg.Wait()
}

func (p *Pipeline) enrichOne(ctx context.Context, l *listings.Listing, subset []places.POI, candidates []geo.Point) {
	res := p.geocoder.Resolve(ctx, l.Address)
	l.GeocodeStatus = res.Status
	if p.metrics != nil {
		p.metrics.RecordGeocodeResult(res.Status)
	}

	if !res.OK() {
		l.GeocodeError = res.ErrorMessage
		l.POIName = sentinel
		l.POIAddress = sentinel
		l.POICategory = sentinel
		l.DistanceKm = math.Inf(1)
		return
	}

	l.Latitude = res.Latitude
	l.Longitude = res.Longitude
	l.FormattedAddress = res.FormattedAddress

	idx, km, ok := geo.Nearest(geo.Point{Lat: res.Latitude, Lon: res.Longitude}, candidates)
	if !ok {
		l.POIName = sentinel
		l.POIAddress = sentinel
		l.POICategory = sentinel
		l.DistanceKm = math.Inf(1)
		return
	}

	nearest := subset[idx]
	l.POIName = nearest.Name
	l.POIAddress = nearest.Address
	l.POICategory = categoryLabel(nearest.Category)
	l.DistanceKm = km
}

// selectSubset picks the POI lists relevant to the requested type. For
// "both", clinics-then-schools concatenation; nearest-search only depends on
// that order for tie-breaking.
func selectSubset(set *places.POISet, poiType string) []places.POI {
	switch poiType {
	case POITypeSchool:
		return set.Schools
	case POITypeClinic:
		return set.Clinics
	default:
		combined := make([]places.POI, 0, len(set.Clinics)+len(set.Schools))
		combined = append(combined, set.Clinics...)
		combined = append(combined, set.Schools...)
		return combined
	}
}

// categoryLabel maps the source-list category tag to its display label.
// Unknown categories pass through unchanged.
func categoryLabel(category string) string {
	switch category {
	case places.CategorySchool:
		return "School"
	case places.CategoryClinic:
		return "Clinic"
	default:
		return category
	}
}
