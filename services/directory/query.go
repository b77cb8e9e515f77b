package directory

import (
	"context"
	"strings"
	"time"

	"glsalliance/models"
	"glsalliance/services/backend"
	"glsalliance/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// FailureMessage is shown when a directory page cannot be loaded.
const FailureMessage = "Failed to load directory. Please try again."

// Backend is the part of the REST client the directory reads from.
type Backend interface {
	ListMembers(ctx context.Context, params backend.DirectoryParams) (*models.MemberPage, error)
	ListCategories(ctx context.Context) ([]models.CategoryRow, error)
	GetMember(ctx context.Context, id string) (*models.MemberRegistration, error)
}

// Page is one loaded directory page, sorted.
type Page struct {
	Rows        []Row `json:"rows"`
	CurrentPage int   `json:"currentPage"`
	// LastPage is nil while the end of the listing is unknown.
	LastPage *int `json:"lastPage"`
	Total    *int `json:"total"`
	// Fetched is the number of rows the backend returned.
	Fetched int `json:"-"`
}

// Service runs directory queries against the backend.
type Service struct {
	backend  Backend
	cache    *redis.Client
	perPage  int
	debounce time.Duration
	logger   *zap.Logger
}

func NewService(b Backend, cache *redis.Client, perPage int, debounce time.Duration, logger *zap.Logger) *Service {
	if perPage <= 0 {
		perPage = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		backend:  b,
		cache:    cache,
		perPage:  perPage,
		debounce: debounce,
		logger:   logger,
	}
}

func (s *Service) PerPage() int { return s.perPage }

// params maps a filter onto the backend query.
func (s *Service) params(f Filter) backend.DirectoryParams {
	p := backend.DirectoryParams{
		ProfileType: string(f.Kind),
		Status:      "active",
		Country:     strings.TrimSpace(f.Country),
		Keyword:     strings.TrimSpace(f.Keyword),
		PerPage:     s.perPage,
		Page:        f.Page,
	}
	if city := strings.TrimSpace(f.City); city != allCities {
		p.City = city
	}
	if f.Kind == KindImporterExporter {
		p.CategoryID = f.CategoryID
	}
	if p.Page < 1 {
		p.Page = 1
	}
	return p
}

// Query loads one page for f without any session state.
func (s *Service) Query(ctx context.Context, f Filter) (*Page, error) {
	if !f.Sort.Valid() {
		f.Sort = f.Kind.DefaultSort()
	}
	page, err := s.load(ctx, f)
	if err != nil {
		return nil, err
	}
	page.Rows = SortRows(page.Rows, f.Sort)
	return page, nil
}

// load fetches a page and keeps the backend's row order.
func (s *Service) load(ctx context.Context, f Filter) (*Page, error) {
	params := s.params(f)

	res, err := s.backend.ListMembers(ctx, params)
	if err != nil {
		utils.DirectoryQueries.WithLabelValues(string(f.Kind), "error").Inc()
		return nil, err
	}
	utils.DirectoryQueries.WithLabelValues(string(f.Kind), "ok").Inc()

	rows := make([]Row, 0, len(res.Rows))
	for _, m := range res.Rows {
		rows = append(rows, toRow(m))
	}
	page := &Page{
		Rows:        rows,
		CurrentPage: params.Page,
		LastPage:    res.LastPage,
		Total:       res.Total,
		Fetched:     len(rows),
	}
	if page.LastPage == nil && len(rows) < s.perPage {
		last := params.Page
		page.LastPage = &last
	}
	return page, nil
}

// Profile loads a public member profile.
func (s *Service) Profile(ctx context.Context, id string) (*models.MemberRegistration, error) {
	return s.backend.GetMember(ctx, id)
}
