package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/fundfolio"
	"github.com/rs/zerolog"
)

// DefaultTTL is how long a cached quote is used before it is fetched again.
const DefaultTTL = 24 * time.Hour

// Oracle answers the latest NAV of an asset from a cache or from its sources.
type Oracle struct {
	Sources []Source
	Cache   Cache
	TTL     time.Duration
	Now     func() time.Time

	log zerolog.Logger
}

// New returns an oracle querying sources in priority order.
func New(cache Cache, ttl time.Duration, log zerolog.Logger, sources ...Source) *Oracle {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Oracle{
		Sources: sources,
		Cache:   cache,
		TTL:     ttl,
		Now:     time.Now,
		log:     log.With().Str("component", "oracle").Logger(),
	}
}

func (o *Oracle) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// cached looks the asset up by key, then by name.
func (o *Oracle) cached(id fundfolio.Identifier) (Quote, bool) {
	if o.Cache == nil {
		return Quote{}, false
	}
	q, age, err := o.Cache.Get(id.Key())
	if err != nil && !id.IsISIN() {
		q, age, err = o.Cache.Find(id.Text())
	}
	if err != nil || !Fresh(age, o.TTL) || !q.Valid() {
		return Quote{}, false
	}
	return q, true
}

// Quote returns the latest quote of the asset.
//
// Unless force is set, a fresh cache entry is returned. Otherwise every source
// is queried and their answers merged. Source failures are logged, not
// returned: ErrNotFound is returned when no source gave a valid NAV.
func (o *Oracle) Quote(ctx context.Context, id fundfolio.Identifier, force bool) (Quote, error) {
	if !force {
		if q, ok := o.cached(id); ok {
			o.log.Debug().Str("asset", id.String()).Msg("cache hit")
			return q, nil
		}
	}

	quotes := make([]Quote, 0, len(o.Sources))
	for _, s := range o.Sources {
		q, err := s.Fetch(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return Quote{}, ctx.Err()
			}
			o.log.Warn().Err(err).Str("source", s.Name()).Str("asset", id.String()).Msg("source failed")
			continue
		}
		q.Source = s.Name()
		quotes = append(quotes, q)
	}
	q := Merge(o.now(), quotes...)
	if q.NAV == nil {
		return q, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if q.Name == "" {
		q.Name = id.Text()
	}
	key := q.ISIN
	if key == "" {
		key = id.Key()
		q.ISIN = key
	}
	if o.Cache != nil {
		if err := o.Cache.Put(key, q); err != nil {
			o.log.Error().Err(err).Msg("cannot save quote cache")
		}
	}
	return q, nil
}

// Refresh updates the quotes of ids that are missing from the cache or stale,
// all of them when force is set. It returns the quotes obtained; assets that
// no source knows are logged and skipped.
func (o *Oracle) Refresh(ctx context.Context, ids []fundfolio.Identifier, force bool) (map[string]Quote, error) {
	res := make(map[string]Quote)
	for _, id := range ids {
		q, err := o.Quote(ctx, id, force)
		switch {
		case errors.Is(err, ErrNotFound):
			o.log.Warn().Str("asset", id.String()).Msg("no NAV found")
			continue
		case err != nil:
			return res, err
		}
		res[id.Key()] = q
	}
	o.log.Info().Int("assets", len(ids)).Int("refreshed", len(res)).Msg("quotes refreshed")
	return res, nil
}
