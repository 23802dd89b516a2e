package get

import (
	"context"
	"fieldservice-dashboard/internal/analytics"
	"fieldservice-dashboard/internal/service/dashboard"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEngineerAnalyzer struct {
	mock.Mock
}

func (m *MockEngineerAnalyzer) EngineerKPIs(ctx context.Context, f dashboard.Filter) (analytics.EngineerKPIs, string, error) {
	args := m.Called(ctx, f)

	kpis := analytics.EngineerKPIs{}
	if args.Get(0) != nil {
		kpis = args.Get(0).(analytics.EngineerKPIs)
	}

	return kpis, args.String(1), args.Error(2)
}

func TestGetEngineerKPIs_Success(t *testing.T) {
	// 1. Мок ждёт фильтр по региону
	mockSvc := new(MockEngineerAnalyzer)
	mockSvc.On("EngineerKPIs", mock.Anything, dashboard.Filter{Region: "Region 2"}).Return(analytics.EngineerKPIs{
		TotalEngineers:    4,
		TotalAllEngineers: 16,
		PercentageOfTotal: 25,
		AvgExperience:     3.5,
		RegionStats:       []analytics.RegionShare{},
		TopVendors:        []analytics.VendorShare{},
	}, "snap-2", nil)

	// 2. Запрос
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/engineers?region=Region%202", nil)
	rr := httptest.NewRecorder()
	GetEngineerKPIs(slog.Default(), mockSvc).ServeHTTP(rr, req)

	// 3. Ответ
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "snap-2", rr.Header().Get("X-Snapshot-ID"))

	var resp analytics.EngineerKPIs
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, 4, resp.TotalEngineers)
	assert.Equal(t, 16, resp.TotalAllEngineers)
	assert.Equal(t, 25.0, resp.PercentageOfTotal)
	assert.Equal(t, 3.5, resp.AvgExperience)

	mockSvc.AssertExpectations(t)
}

func TestGetEngineerKPIs_ServiceError(t *testing.T) {
	mockSvc := new(MockEngineerAnalyzer)
	mockSvc.On("EngineerKPIs", mock.Anything, mock.Anything).Return(nil, "", assert.AnError)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/engineers", nil)
	rr := httptest.NewRecorder()
	GetEngineerKPIs(slog.Default(), mockSvc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Internal error")
	mockSvc.AssertExpectations(t)
}

func TestGetEngineerKPIs_ContextCanceled(t *testing.T) {
	mockSvc := new(MockEngineerAnalyzer)
	mockSvc.On("EngineerKPIs", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			<-ctx.Done()
		}).
		Return(nil, "", context.Canceled)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/engineers", nil).WithContext(ctx)
	rr := httptest.NewRecorder()
	GetEngineerKPIs(slog.Default(), mockSvc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	mockSvc.AssertExpectations(t)
}
