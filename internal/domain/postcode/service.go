package postcode

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"property-match-go/pkg/logger"
)

// bulkChunkSize is the number of postcodes sent per bulk geocoding call.
const bulkChunkSize = 100

var ukPostcodePattern = regexp.MustCompile(`^[A-Z]{1,2}[0-9][A-Z0-9]?[0-9][A-Z]{2}$`)

type Service struct {
	repo     Repository
	geocoder Geocoder
	log      logger.Logger
}

func NewService(repo Repository, geocoder Geocoder, log logger.Logger) *Service {
	return &Service{repo: repo, geocoder: geocoder, log: log}
}

// Format validates raw against the UK postcode grammar and reformats it as
// "OUTWARD INWARD" in uppercase. It returns "" for anything that does not
// match; invalid input is a normal outcome, not an error.
func (s *Service) Format(raw string) string {
	compact := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	if !ukPostcodePattern.MatchString(compact) {
		return ""
	}
	return compact[:len(compact)-3] + " " + compact[len(compact)-3:]
}

// EnsureCached resolves and stores a single postcode unless it is empty,
// invalid, or already cached. A geocoding miss is logged and skipped.
func (s *Service) EnsureCached(ctx context.Context, raw string) error {
	formatted := s.Format(raw)
	if formatted == "" {
		return nil
	}

	if _, err := s.repo.Get(ctx, formatted); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	coords, err := s.geocoder.Lookup(ctx, formatted)
	if err != nil {
		s.log.Warn("postcode: geocode lookup failed", "postcode", formatted, "err", err)
		return nil
	}
	if coords == nil {
		s.log.Warn("postcode: geocode lookup returned no result", "postcode", formatted)
		return nil
	}

	return s.repo.Create(ctx, &Postcode{
		Postcode: formatted,
		Lat:      &coords.Lat,
		Lon:      &coords.Lon,
	})
}

// EnsureCachedBulk normalizes and de-duplicates raw postcodes, drops the ones
// already cached, and resolves the rest in concurrent chunks of 100. A chunk
// that fails or a postcode missing from a response is logged and skipped;
// results from the other chunks are still inserted.
func (s *Service) EnsureCachedBulk(ctx context.Context, raws []string) error {
	seen := make(map[string]struct{}, len(raws))
	formatted := make([]string, 0, len(raws))
	for _, raw := range raws {
		pc := s.Format(raw)
		if pc == "" {
			continue
		}
		if _, ok := seen[pc]; ok {
			continue
		}
		seen[pc] = struct{}{}
		formatted = append(formatted, pc)
	}
	if len(formatted) == 0 {
		return nil
	}

	existing, err := s.repo.ListExisting(ctx, formatted)
	if err != nil {
		return err
	}
	cached := make(map[string]struct{}, len(existing))
	for _, pc := range existing {
		cached[pc] = struct{}{}
	}

	missing := formatted[:0]
	for _, pc := range formatted {
		if _, ok := cached[pc]; !ok {
			missing = append(missing, pc)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var (
		mu      sync.Mutex
		records []Postcode
	)

	group, groupCtx := errgroup.WithContext(ctx)
	for start := 0; start < len(missing); start += bulkChunkSize {
		end := start + bulkChunkSize
		if end > len(missing) {
			end = len(missing)
		}
		chunk := missing[start:end]

		group.Go(func() error {
			found, err := s.geocoder.LookupBulk(groupCtx, chunk)
			if err != nil {
				s.log.Warn("postcode: bulk geocode chunk failed", "size", len(chunk), "err", err)
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			for _, pc := range chunk {
				coords, ok := found[pc]
				if !ok {
					s.log.Warn("postcode: no geocode result in bulk response", "postcode", pc)
					continue
				}
				lat, lon := coords.Lat, coords.Lon
				records = append(records, Postcode{Postcode: pc, Lat: &lat, Lon: &lon})
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	if len(records) == 0 {
		return nil
	}
	return s.repo.CreateBatch(ctx, records)
}

// Coordinates returns the cached location for a postcode, resolving it on
// demand when absent. ErrNotFound means the postcode cannot be located at
// all and callers should degrade to an unsorted result.
func (s *Service) Coordinates(ctx context.Context, raw string) (*Coordinates, error) {
	formatted := s.Format(raw)
	if formatted == "" {
		return nil, ErrNotFound
	}

	record, err := s.repo.Get(ctx, formatted)
	if errors.Is(err, ErrNotFound) {
		if err := s.EnsureCached(ctx, formatted); err != nil {
			return nil, err
		}
		record, err = s.repo.Get(ctx, formatted)
	}
	if err != nil {
		return nil, err
	}

	if record.Lat == nil || record.Lon == nil {
		return nil, ErrNotFound
	}
	return &Coordinates{Lat: *record.Lat, Lon: *record.Lon}, nil
}
