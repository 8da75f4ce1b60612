package service

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/community-watch/backend/internal/model"
	"github.com/google/uuid"
)

const (
	filterAll       = "all"
	uncategorized   = "Uncategorized"
	filterDateFmt   = "2006-01-02"
	topRankingLimit = 5
	trendMonths     = 6
	recentWindow    = 30
)

var ErrInvalidReportFilter = errors.New("invalid report filter")

// ReportService aggregates report lists supplied by the caller. Nothing is
// stored server-side.
type ReportService struct {
	now func() time.Time
}

func NewReportService() *ReportService {
	return &ReportService{now: time.Now}
}

// Filter keeps reports matching every set field of f. A nil filter keeps all.
func (s *ReportService) Filter(reports []model.Report, f *model.ReportFilter) ([]model.Report, error) {
	if f == nil {
		return slices.Clone(reports), nil
	}

	from, err := parseFilterDate(f.DateFrom)
	if err != nil {
		return nil, fmt.Errorf("%w: dateFrom: %v", ErrInvalidReportFilter, err)
	}
	to, err := parseFilterDate(f.DateTo)
	if err != nil {
		return nil, fmt.Errorf("%w: dateTo: %v", ErrInvalidReportFilter, err)
	}
	if !to.IsZero() {
		// 종료일은 해당 날짜의 마지막 순간까지 포함
		to = to.Add(24*time.Hour - time.Nanosecond)
	}

	out := make([]model.Report, 0, len(reports))
	for _, r := range reports {
		if !matches(f.Category, r.Category) ||
			!matches(f.Location, r.Location) ||
			!matches(f.Severity, r.Priority) ||
			!matches(f.Status, r.Status) {
			continue
		}
		created := r.CreatedAt.UTC()
		if !from.IsZero() && startOfDay(created).Before(from) {
			continue
		}
		if !to.IsZero() && created.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Metrics - 전체 건수는 필터와 무관, 나머지 집계는 필터 결과 기준
func (s *ReportService) Metrics(req model.ReportsRequest) (*model.ReportMetrics, error) {
	filtered, err := s.Filter(req.Reports, req.Filter)
	if err != nil {
		return nil, err
	}

	metrics := &model.ReportMetrics{
		TotalIncidents:       len(req.Reports),
		FilteredCount:        len(filtered),
		PriorityDistribution: map[string]int{},
		StatusDistribution:   map[string]int{},
	}

	categories := newCounter()
	locations := newCounter()
	months := map[string]int{}
	recentSince := s.now().AddDate(0, 0, -recentWindow)

	for _, r := range filtered {
		category := strings.TrimSpace(r.Category)
		if category == "" {
			category = uncategorized
		}
		categories.add(category)
		if loc := strings.TrimSpace(r.Location); loc != "" {
			locations.add(loc)
		}

		months[r.CreatedAt.UTC().Format("2006-01")]++
		metrics.PriorityDistribution[r.Priority]++
		metrics.StatusDistribution[r.Status]++

		if !r.CreatedAt.Before(recentSince) {
			metrics.RecentReportsCount++
		}
	}

	metrics.MostCommonCategories = make([]model.CategoryCount, 0, topRankingLimit)
	for _, e := range categories.top(topRankingLimit) {
		metrics.MostCommonCategories = append(metrics.MostCommonCategories, model.CategoryCount{Category: e.key, Count: e.count})
	}
	metrics.MostCommonLocations = make([]model.LocationCount, 0, topRankingLimit)
	for _, e := range locations.top(topRankingLimit) {
		metrics.MostCommonLocations = append(metrics.MostCommonLocations, model.LocationCount{Location: e.key, Count: e.count})
	}
	metrics.Trends = monthlyTrend(months)
	metrics.AveragePerDay = float64(metrics.RecentReportsCount) / recentWindow

	return metrics, nil
}

// Export returns the filtered reports and the attachment file name. Reports
// without an id get a generated one.
func (s *ReportService) Export(req model.ReportsRequest) (*model.ReportExport, string, error) {
	filtered, err := s.Filter(req.Reports, req.Filter)
	if err != nil {
		return nil, "", err
	}
	for i := range filtered {
		if strings.TrimSpace(filtered[i].ID) == "" {
			filtered[i].ID = uuid.NewString()
		}
	}

	now := s.now().UTC()
	return &model.ReportExport{
		ExportDate:   now,
		TotalReports: len(filtered),
		Reports:      filtered,
	}, fmt.Sprintf("incident-reports-%s.json", now.Format(filterDateFmt)), nil
}

func matches(filter, value string) bool {
	filter = strings.TrimSpace(filter)
	return filter == "" || filter == filterAll || filter == value
}

func parseFilterDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(filterDateFmt, value)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthlyTrend(months map[string]int) []model.MonthCount {
	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	if len(keys) > trendMonths {
		keys = keys[len(keys)-trendMonths:]
	}

	out := make([]model.MonthCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, model.MonthCount{Month: k, Count: months[k]})
	}
	return out
}

type countEntry struct {
	key   string
	count int
}

// counter keeps first-seen order so ties rank stably.
type counter struct {
	index   map[string]int
	entries []countEntry
}

func newCounter() *counter {
	return &counter{index: map[string]int{}}
}

func (c *counter) add(key string) {
	if i, ok := c.index[key]; ok {
		c.entries[i].count++
		return
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, countEntry{key: key, count: 1})
}

func (c *counter) top(n int) []countEntry {
	sorted := slices.Clone(c.entries)
	slices.SortStableFunc(sorted, func(a, b countEntry) int {
		return cmp.Compare(b.count, a.count)
	})
	return sorted[:min(len(sorted), n)]
}
