package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/user/secnews-crawler/internal/entity"
	"github.com/user/secnews-crawler/internal/repository"
)

type memCompanies struct {
	companies []entity.Company
	err       error
}

func (m *memCompanies) ListActive(context.Context) ([]entity.Company, error) {
	return m.companies, m.err
}

// memNews mimics a table with a UNIQUE source_url.
type memNews struct {
	mu        sync.Mutex
	items     map[string]*entity.NewsItem
	owners    map[string]string
	existsErr map[string]error
	createErr error
	// beforeCreate runs inside Create, before the uniqueness check.
	beforeCreate func(url string)
}

func newMemNews() *memNews {
	return &memNews{
		items:     make(map[string]*entity.NewsItem),
		owners:    make(map[string]string),
		existsErr: make(map[string]error),
	}
}

func (m *memNews) ExistsByURL(_ context.Context, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.existsErr[url]; err != nil {
		return false, err
	}
	_, ok := m.items[url]
	return ok, nil
}

func (m *memNews) Create(_ context.Context, companyID string, item *entity.NewsItem) (bool, error) {
	if m.beforeCreate != nil {
		m.beforeCreate(item.SourceURL)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return false, m.createErr
	}
	if _, ok := m.items[item.SourceURL]; ok {
		return false, nil
	}
	stored := *item
	stored.CompanyID = companyID
	m.items[item.SourceURL] = &stored
	m.owners[item.SourceURL] = companyID
	return true, nil
}

func (m *memNews) put(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[url] = &entity.NewsItem{SourceURL: url}
}

type memRuns struct {
	mu        sync.Mutex
	runs      []*entity.CrawlRun
	createErr error
	updateErr error
	findErr   error
}

func (m *memRuns) Create(_ context.Context, targetURL string, startedAt time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return 0, m.createErr
	}
	run := &entity.CrawlRun{
		ID:        int64(len(m.runs) + 1),
		TargetURL: targetURL,
		Status:    entity.RunStatusRunning,
		StartedAt: startedAt,
	}
	m.runs = append(m.runs, run)
	return run.ID, nil
}

func (m *memRuns) Update(_ context.Context, id int64, status entity.RunStatus, itemsFound int, completedAt time.Time, errorMessage *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	for _, r := range m.runs {
		if r.ID == id && r.Status == entity.RunStatusRunning {
			r.Status = status
			r.ItemsFound = itemsFound
			r.CompletedAt = &completedAt
			r.ErrorMessage = errorMessage
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memRuns) sorted() []*entity.CrawlRun {
	out := append([]*entity.CrawlRun(nil), m.runs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out
}

func (m *memRuns) FindLast(context.Context) (*entity.CrawlRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	runs := m.sorted()
	if len(runs) == 0 {
		return nil, repository.ErrNotFound
	}
	cp := *runs[0]
	return &cp, nil
}

func (m *memRuns) FindRunning(context.Context) (*entity.CrawlRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, r := range m.sorted() {
		if r.Status == entity.RunStatusRunning {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memRuns) last() *entity.CrawlRun {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.runs) == 0 {
		return nil
	}
	return m.runs[len(m.runs)-1]
}

type stubSearcher struct {
	results map[string][]entity.CandidateItem
	errs    map[string]error
	onCall  func(company string)
	calls   []string
}

func (s *stubSearcher) SearchCompanyNews(_ context.Context, company string) ([]entity.CandidateItem, error) {
	s.calls = append(s.calls, company)
	if s.onCall != nil {
		s.onCall(company)
	}
	if err := s.errs[company]; err != nil {
		return nil, err
	}
	return s.results[company], nil
}

func (s *stubSearcher) Endpoint() string { return "https://search.example.com/search" }

type stubArticles map[string]string

func (a stubArticles) FetchArticleContent(_ context.Context, url string) string {
	return a[url]
}

type stubLock struct {
	err      error
	released []string
}

func (l *stubLock) Acquire(context.Context, time.Duration) (string, error) {
	if l.err != nil {
		return "", l.err
	}
	return "token-1", nil
}

func (l *stubLock) Release(_ context.Context, token string) error {
	l.released = append(l.released, token)
	return nil
}

type memSeen struct {
	urls map[string]bool
	err  error
}

func (s *memSeen) MarkSeen(_ context.Context, url string, _ time.Duration) error {
	s.urls[url] = true
	return nil
}

func (s *memSeen) IsSeen(_ context.Context, url string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.urls[url], nil
}

var errDBDown = errors.New("connection refused")
