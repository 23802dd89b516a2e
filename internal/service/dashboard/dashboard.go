package dashboard

import (
	"context"
	"fieldservice-dashboard/internal/analytics"
	"fieldservice-dashboard/internal/service/snapshot"
	"fieldservice-dashboard/internal/storage"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var facadeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dashboard_facade_duration_seconds",
	Help:    "Time spent computing one analytics facade.",
	Buckets: prometheus.DefBuckets,
}, []string{"facade"})

// SnapshotIDHeader - заголовок ответа с ID снапшота, по которому посчитан результат.
const SnapshotIDHeader = "X-Snapshot-ID"

type SnapshotSource interface {
	Get(ctx context.Context) (*snapshot.Snapshot, error)
	Invalidate()
}

// Store - запись в хранилище, чтение аналитики идет через снапшот.
type Store interface {
	GetRecord(ctx context.Context, resource storage.Resource, key string) (storage.Record, error)
	SaveRecord(ctx context.Context, resource storage.Resource, key string, rec storage.Record) error
	UpdateStockPart(ctx context.Context, partNumber string, fields map[string]interface{}) (storage.Record, error)
}

type Service struct {
	snapshots SnapshotSource
	store     Store
	loc       *time.Location
	now       func() time.Time
}

func New(snapshots SnapshotSource, store Store, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{snapshots: snapshots, store: store, loc: loc, now: time.Now}
}

// WithClock подменяет текущее время, нужно тестам.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) clock() time.Time {
	return s.now().In(s.loc)
}

// Filter - фильтры страницы, пустое поле не фильтрует.
type Filter struct {
	Region    string
	Vendor    string
	AreaGroup string
}

func (f Filter) IsEmpty() bool {
	return f.Region == "" && f.Vendor == "" && f.AreaGroup == ""
}

// Match сравнивает без учета регистра и пробелов по краям.
func (f Filter) Match(r storage.Record) bool {
	return matches(f.Region, analytics.FieldText(r, "region")) &&
		matches(f.Vendor, analytics.FieldText(r, "vendor")) &&
		matches(f.AreaGroup, analytics.FieldText(r, "area_group"))
}

func matches(want, got string) bool {
	want = strings.TrimSpace(want)
	return want == "" || strings.EqualFold(want, got)
}

func (f Filter) Apply(records []storage.Record) []storage.Record {
	if f.IsEmpty() {
		return records
	}
	out := make([]storage.Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func observe(facade string) func() {
	timer := prometheus.NewTimer(facadeDuration.WithLabelValues(facade))
	return func() { timer.ObserveDuration() }
}

func (s *Service) snapshot(ctx context.Context, op string) (*snapshot.Snapshot, error) {
	snap, err := s.snapshots.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения снапшота: %w", op, err)
	}
	return snap, nil
}

func (s *Service) Training(ctx context.Context, f Filter) (analytics.TrainingKPIs, string, error) {
	const op = "service.dashboard.Training"
	defer observe("training")()

	snap, err := s.snapshot(ctx, op)
	if err != nil {
		return analytics.TrainingKPIs{}, "", err
	}

	return analytics.AnalyzeTraining(f.Apply(snap.Engineers)), snap.ID, nil
}

func (s *Service) EngineerKPIs(ctx context.Context, f Filter) (analytics.EngineerKPIs, string, error) {
	const op = "service.dashboard.EngineerKPIs"
	defer observe("engineers")()

	snap, err := s.snapshot(ctx, op)
	if err != nil {
		return analytics.EngineerKPIs{}, "", err
	}

	return analytics.AnalyzeEngineers(f.Apply(snap.Engineers), snap.Engineers), snap.ID, nil
}

func (s *Service) MachineKPIs(ctx context.Context, f Filter) (analytics.MachineKPIs, string, error) {
	const op = "service.dashboard.MachineKPIs"
	defer observe("machines")()

	snap, err := s.snapshot(ctx, op)
	if err != nil {
		return analytics.MachineKPIs{}, "", err
	}

	return analytics.AnalyzeMachines(f.Apply(snap.Machines), snap.Machines, s.clock()), snap.ID, nil
}

func (s *Service) Stock(ctx context.Context) (analytics.StockKPIs, string, error) {
	const op = "service.dashboard.Stock"
	defer observe("stock")()

	snap, err := s.snapshot(ctx, op)
	if err != nil {
		return analytics.StockKPIs{}, "", err
	}

	return analytics.AnalyzeStock(snap.StockParts), snap.ID, nil
}

func (s *Service) Decision(ctx context.Context) (analytics.Decision, string, error) {
	const op = "service.dashboard.Decision"
	defer observe("decision")()

	snap, err := s.snapshot(ctx, op)
	if err != nil {
		return analytics.Decision{}, "", err
	}

	return analytics.AnalyzeDecision(snap.Engineers, snap.Machines, snap.Leveling, s.clock()), snap.ID, nil
}

func (s *Service) Relationships(ctx context.Context) (analytics.Relationships, string, error) {
	const op = "service.dashboard.Relationships"
	defer observe("relationships")()

	snap, err := s.snapshot(ctx, op)
	if err != nil {
		return analytics.Relationships{}, "", err
	}

	return analytics.AnalyzeRelationships(snap.ServiceOrders), snap.ID, nil
}

func (s *Service) ResolutionTimes(ctx context.Context, months []string) (analytics.ResolutionTimes, string, error) {
	const op = "service.dashboard.ResolutionTimes"
	defer observe("resolution_times")()

	snap, err := s.snapshot(ctx, op)
	if err != nil {
		return analytics.ResolutionTimes{}, "", err
	}

	return analytics.AnalyzeResolutionTimes(snap.ServiceOrders, months), snap.ID, nil
}

// SOTimeTracking: пустой период - текущий месяц.
func (s *Service) SOTimeTracking(ctx context.Context, period string) (analytics.SOTimeTracking, string, error) {
	const op = "service.dashboard.SOTimeTracking"
	defer observe("so_time")()

	p, err := analytics.ParsePeriod(period)
	if err != nil {
		return analytics.SOTimeTracking{}, "", fmt.Errorf("%s: %q: %w", op, period, err)
	}

	snap, err := s.snapshot(ctx, op)
	if err != nil {
		return analytics.SOTimeTracking{}, "", err
	}

	return analytics.TrackSOTime(snap.ServiceOrders, p, s.clock()), snap.ID, nil
}

// Records - коллекция как есть, без агрегации.
func (s *Service) Records(ctx context.Context, resource string) ([]storage.Record, string, error) {
	const op = "service.dashboard.Records"

	res, err := storage.ParseResource(resource)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %q: %w", op, resource, err)
	}

	snap, err := s.snapshot(ctx, op)
	if err != nil {
		return nil, "", err
	}

	records, err := snap.Records(res)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	return records, snap.ID, nil
}
