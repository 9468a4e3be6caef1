package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang-econ-reporter/internal/entity"
	"golang-econ-reporter/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeScheduler struct {
	ran       []entity.ReportFrequency
	generated int
	err       error
}

func (f *fakeScheduler) RunForFrequency(_ context.Context, frequency entity.ReportFrequency) (int, error) {
	f.ran = append(f.ran, frequency)
	return f.generated, f.err
}

func (f *fakeScheduler) RunDueToday(_ context.Context, _ time.Time) {}

type fakeReportRepo struct {
	report *entity.Report
}

func (f *fakeReportRepo) Create(_ context.Context, _ *entity.Report) error { return nil }

func (f *fakeReportRepo) FindByID(_ context.Context, id uint) (*entity.Report, error) {
	if f.report != nil && f.report.ID == id {
		return f.report, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReportRepo) FindBySubscriberID(_ context.Context, _ uint, _ int) ([]entity.Report, error) {
	return nil, nil
}

func newReportHandler(t *testing.T, scheduler *fakeScheduler, repo *fakeReportRepo) *ReportHandler {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return NewReportHandler(scheduler, repo, log)
}

func TestGetReportByID(t *testing.T) {
	repo := &fakeReportRepo{report: &entity.Report{ID: 9, Title: "리포트"}}
	handler := newReportHandler(t, &fakeScheduler{}, repo)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("9")

	require.NoError(t, handler.GetReportByID(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "리포트")
}

func TestGetReportByIDNotFound(t *testing.T) {
	handler := newReportHandler(t, &fakeScheduler{}, &fakeReportRepo{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("404")

	require.NoError(t, handler.GetReportByID(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunReports(t *testing.T) {
	scheduler := &fakeScheduler{generated: 3}
	handler := newReportHandler(t, scheduler, &fakeReportRepo{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"frequency": "weekly"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.RunReports(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"generated":3`)
	assert.Equal(t, []entity.ReportFrequency{entity.FrequencyWeekly}, scheduler.ran)
}

func TestRunReportsInvalidFrequency(t *testing.T) {
	scheduler := &fakeScheduler{}
	handler := newReportHandler(t, scheduler, &fakeReportRepo{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"frequency": "hourly"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.RunReports(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, scheduler.ran)
}
