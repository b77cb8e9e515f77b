package content

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"glsalliance/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CacheTTL is how long public site content is served from Redis.
const CacheTTL = 5 * time.Minute

const cachePrefix = "content:v1:"

var ErrConferenceNotFound = errors.New("conference not found")

// Backend is the part of the REST client serving site content.
type Backend interface {
	Conferences(ctx context.Context) ([]models.Conference, error)
	ContactDetails(ctx context.Context) (*models.ContactDetails, error)
	HomeHeroes(ctx context.Context) ([]models.HomeHero, error)
	Testimonials(ctx context.Context) ([]models.Testimonial, error)
}

type Service struct {
	backend Backend
	cache   *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
}

func NewService(b Backend, cache *redis.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: b, cache: cache, ttl: CacheTTL, logger: logger}
}

// cached serves key from Redis or fills it with fetch. Cache failures only
// cost a backend call.
func cached[T any](ctx context.Context, s *Service, key string, fetch func(context.Context) (T, error)) (T, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cachePrefix+key).Bytes(); err == nil {
			var v T
			if json.Unmarshal(data, &v) == nil {
				return v, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("Content cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	if s.cache != nil {
		if data, err := json.Marshal(v); err == nil {
			if err := s.cache.Set(ctx, cachePrefix+key, data, s.ttl).Err(); err != nil {
				s.logger.Warn("Content cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return v, nil
}

func (s *Service) Conferences(ctx context.Context) ([]models.Conference, error) {
	return cached(ctx, s, "conferences", s.backend.Conferences)
}

// ConferenceBySlug picks a conference out of the cached list.
func (s *Service) ConferenceBySlug(ctx context.Context, slug string) (*models.Conference, error) {
	list, err := s.Conferences(ctx)
	if err != nil {
		return nil, err
	}
	slug = strings.TrimSpace(slug)
	for i := range list {
		if list[i].Slug == slug {
			return &list[i], nil
		}
	}
	return nil, ErrConferenceNotFound
}

func (s *Service) ContactDetails(ctx context.Context) (*models.ContactDetails, error) {
	return cached(ctx, s, "contact_details", s.backend.ContactDetails)
}

func isActive(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), "active")
}

// HomeHeroes lists the active hero slides in display order.
func (s *Service) HomeHeroes(ctx context.Context) ([]models.HomeHero, error) {
	all, err := cached(ctx, s, "home_heroes", s.backend.HomeHeroes)
	if err != nil {
		return nil, err
	}
	out := make([]models.HomeHero, 0, len(all))
	for _, h := range all {
		if bool(h.IsActive) || isActive(h.Status) {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

// Testimonials lists the active testimonials in display order.
func (s *Service) Testimonials(ctx context.Context) ([]models.Testimonial, error) {
	all, err := cached(ctx, s, "testimonials", s.backend.Testimonials)
	if err != nil {
		return nil, err
	}
	out := make([]models.Testimonial, 0, len(all))
	for _, t := range all {
		if isActive(t.Status) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}
