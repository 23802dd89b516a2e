package save

import (
	"context"
	"fieldservice-dashboard/internal/service/dashboard"
	"fieldservice-dashboard/internal/storage"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRecordSaver struct {
	mock.Mock
}

func (m *MockRecordSaver) SaveRecord(ctx context.Context, resource, key string, rec storage.Record) error {
	args := m.Called(ctx, resource, key, rec)
	return args.Error(0)
}

func serve(saver RecordSaver, path, body string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Put("/api/admin/records/{resource}/{key}", SaveRecord(slog.Default(), saver))

	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestSaveRecord_Success(t *testing.T) {
	// 1. Мок ждёт запись как пришла
	saver := new(MockRecordSaver)
	saver.On("SaveRecord", mock.Anything, "engineers", "E1", storage.Record{"name": "Ani", "region": "Region 1"}).Return(nil)

	// 2. Запрос
	rr := serve(saver, "/api/admin/records/engineers/E1", `{"name": "Ani", "region": "Region 1"}`)

	// 3. Ответ
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp Response
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, Response{Resource: "engineers", Key: "E1", Status: "saved"}, resp)

	saver.AssertExpectations(t)
}

func TestSaveRecord_InvalidJSON(t *testing.T) {
	saver := new(MockRecordSaver)

	rr := serve(saver, "/api/admin/records/engineers/E1", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	saver.AssertNotCalled(t, "SaveRecord", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveRecord_Errors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"неизвестная коллекция", storage.ErrUnknownResource, http.StatusNotFound},
		{"пустая запись", dashboard.ErrInvalidRecord, http.StatusBadRequest},
		{"отрицательный остаток", dashboard.ErrInvalidStock, http.StatusBadRequest},
		{"ошибка хранилища", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			saver := new(MockRecordSaver)
			saver.On("SaveRecord", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(fmt.Errorf("service.dashboard.SaveRecord: %w", tc.err))

			rr := serve(saver, "/api/admin/records/stock-parts/P1", `{"idfsl01_fsl_a": 1}`)

			assert.Equal(t, tc.want, rr.Code)
		})
	}
}
