package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/delivery/http/middleware"
	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/pkg/apperror"
	"clinic-scheduling/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAppointmentUsecase struct {
	mock.Mock
}

func (m *mockAppointmentUsecase) Create(ctx context.Context, practitionerID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, practitionerID, req)
	resp, _ := args.Get(0).(*dto.AppointmentResponse)
	return resp, args.Error(1)
}

func (m *mockAppointmentUsecase) Transition(ctx context.Context, actorID, appointmentID uuid.UUID, status entity.AppointmentStatus) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, actorID, appointmentID, status)
	resp, _ := args.Get(0).(*dto.AppointmentResponse)
	return resp, args.Error(1)
}

func (m *mockAppointmentUsecase) GetByID(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, appointmentID)
	resp, _ := args.Get(0).(*dto.AppointmentResponse)
	return resp, args.Error(1)
}

func (m *mockAppointmentUsecase) ListByPractitioner(ctx context.Context, practitionerID uuid.UUID) (*dto.AppointmentListResponse, error) {
	args := m.Called(ctx, practitionerID)
	resp, _ := args.Get(0).(*dto.AppointmentListResponse)
	return resp, args.Error(1)
}

func (m *mockAppointmentUsecase) History(ctx context.Context, appointmentID uuid.UUID) (*dto.AuditLogListResponse, error) {
	args := m.Called(ctx, appointmentID)
	resp, _ := args.Get(0).(*dto.AuditLogListResponse)
	return resp, args.Error(1)
}

type mockCalendarUsecase struct {
	mock.Mock
}

func (m *mockCalendarUsecase) ForRange(ctx context.Context, practitionerID uuid.UUID, start, end time.Time) (*entity.Calendar, error) {
	args := m.Called(ctx, practitionerID, start, end)
	cal, _ := args.Get(0).(*entity.Calendar)
	return cal, args.Error(1)
}

func (m *mockCalendarUsecase) Month(ctx context.Context, practitionerID uuid.UUID, year int, month time.Month) (*entity.Calendar, error) {
	args := m.Called(ctx, practitionerID, year, month)
	cal, _ := args.Get(0).(*entity.Calendar)
	return cal, args.Error(1)
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Error     json.RawMessage `json:"error"`
	Retryable bool            `json:"retryable"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// authenticated mimics AuthMiddleware by placing the caller in the context.
func authenticated(r *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.RoleKey, entity.RolePractitioner)
	return r.WithContext(ctx)
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func appointmentRouter(h *AppointmentHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/appointments", h.CreateAppointment).Methods(http.MethodPost)
	r.HandleFunc("/appointments", h.GetMyAppointments).Methods(http.MethodGet)
	r.HandleFunc("/appointments/{id}", h.GetAppointment).Methods(http.MethodGet)
	r.HandleFunc("/appointments/{id}/status", h.TransitionAppointment).Methods(http.MethodPatch)
	r.HandleFunc("/appointments/{id}/history", h.GetAppointmentHistory).Methods(http.MethodGet)
	return r
}

func TestAppointmentHandler_Create(t *testing.T) {
	practitionerID := uuid.New()
	payload := dto.CreateAppointmentRequest{
		PatientID:   uuid.NewString(),
		ProcedureID: uuid.NewString(),
		ScheduledAt: "2024-03-10T14:00:00Z",
	}

	tests := []struct {
		name      string
		result    *dto.AppointmentResponse
		err       error
		status    int
		retryable bool
	}{
		{"created", &dto.AppointmentResponse{ID: uuid.New(), Status: "Scheduled"}, nil, http.StatusCreated, false},
		{"conflict", nil, apperror.Conflict("slot already booked"), http.StatusConflict, false},
		{"validation", nil, apperror.Validation("validation failed", map[string]string{"patient_id": "patient does not exist"}), http.StatusBadRequest, false},
		{"storage", nil, apperror.Storage(errors.New("timeout")), http.StatusServiceUnavailable, true},
		{"unexpected", nil, errors.New("boom"), http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockAppointmentUsecase)
			uc.On("Create", mock.Anything, practitionerID, &payload).Return(tt.result, tt.err)

			req := authenticated(httptest.NewRequest(http.MethodPost, "/appointments", jsonBody(t, payload)), practitionerID)
			rec := httptest.NewRecorder()
			appointmentRouter(NewAppointmentHandler(uc, validator.NewValidator())).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			body := decodeEnvelope(t, rec)
			assert.Equal(t, tt.err == nil, body.Success)
			assert.Equal(t, tt.retryable, body.Retryable)
			uc.AssertExpectations(t)
		})
	}
}

func TestAppointmentHandler_Create_ValidationFields(t *testing.T) {
	uc := new(mockAppointmentUsecase)
	uc.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperror.Validation("validation failed", map[string]string{"scheduled_at": "scheduled_at is required"}))

	req := authenticated(httptest.NewRequest(http.MethodPost, "/appointments", jsonBody(t, map[string]string{})), uuid.New())
	rec := httptest.NewRecorder()
	appointmentRouter(NewAppointmentHandler(uc, validator.NewValidator())).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Error, &fields))
	assert.Equal(t, "scheduled_at is required", fields["scheduled_at"])
}

func TestAppointmentHandler_Create_Unauthenticated(t *testing.T) {
	uc := new(mockAppointmentUsecase)

	req := httptest.NewRequest(http.MethodPost, "/appointments", jsonBody(t, map[string]string{}))
	rec := httptest.NewRecorder()
	appointmentRouter(NewAppointmentHandler(uc, validator.NewValidator())).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	uc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestAppointmentHandler_Create_MalformedJSON(t *testing.T) {
	uc := new(mockAppointmentUsecase)

	req := authenticated(httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewBufferString("{")), uuid.New())
	rec := httptest.NewRecorder()
	appointmentRouter(NewAppointmentHandler(uc, validator.NewValidator())).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAppointmentHandler_Transition(t *testing.T) {
	actorID := uuid.New()
	appointmentID := uuid.New()

	tests := []struct {
		name   string
		body   interface{}
		err    error
		call   bool
		status int
	}{
		{"ok", map[string]string{"status": "Confirmed"}, nil, true, http.StatusOK},
		{"invalid transition", map[string]string{"status": "Confirmed"}, apperror.InvalidTransition("Completed", "Confirmed"), true, http.StatusUnprocessableEntity},
		{"not found", map[string]string{"status": "Confirmed"}, apperror.NotFound("appointment"), true, http.StatusNotFound},
		{"unknown status", map[string]string{"status": "Archived"}, nil, false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockAppointmentUsecase)
			if tt.call {
				var result *dto.AppointmentResponse
				if tt.err == nil {
					result = &dto.AppointmentResponse{ID: appointmentID, Status: "Confirmed"}
				}
				uc.On("Transition", mock.Anything, actorID, appointmentID, entity.AppointmentStatusConfirmed).Return(result, tt.err)
			}

			req := authenticated(httptest.NewRequest(http.MethodPatch, "/appointments/"+appointmentID.String()+"/status", jsonBody(t, tt.body)), actorID)
			rec := httptest.NewRecorder()
			appointmentRouter(NewAppointmentHandler(uc, validator.NewValidator())).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			uc.AssertExpectations(t)
		})
	}
}

func TestAppointmentHandler_InvalidID(t *testing.T) {
	uc := new(mockAppointmentUsecase)

	req := authenticated(httptest.NewRequest(http.MethodGet, "/appointments/not-a-uuid", nil), uuid.New())
	rec := httptest.NewRecorder()
	appointmentRouter(NewAppointmentHandler(uc, validator.NewValidator())).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid appointment ID", decodeEnvelope(t, rec).Message)
}

func TestAppointmentHandler_History(t *testing.T) {
	appointmentID := uuid.New()
	uc := new(mockAppointmentUsecase)
	uc.On("History", mock.Anything, appointmentID).Return(&dto.AuditLogListResponse{
		Logs:  []dto.AuditLogResponse{{ID: 1, Action: entity.AuditActionAppointmentCreate}},
		Total: 1,
	}, nil)

	req := authenticated(httptest.NewRequest(http.MethodGet, "/appointments/"+appointmentID.String()+"/history", nil), uuid.New())
	rec := httptest.NewRecorder()
	appointmentRouter(NewAppointmentHandler(uc, validator.NewValidator())).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var history dto.AuditLogListResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &history))
	assert.Equal(t, 1, history.Total)
}

func TestCalendarHandler_Month(t *testing.T) {
	practitionerID := uuid.New()
	r := entity.AppointmentRange{
		PractitionerID: practitionerID,
		From:           time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		To:             time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC),
	}
	cal := entity.NewCalendar(r, time.UTC, []entity.Appointment{
		{ID: uuid.New(), PractitionerID: practitionerID, ScheduledAt: time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC), Status: entity.AppointmentStatusScheduled},
		{ID: uuid.New(), PractitionerID: practitionerID, ScheduledAt: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC), Status: entity.AppointmentStatusCancelled},
	})

	uc := new(mockCalendarUsecase)
	uc.On("Month", mock.Anything, practitionerID, 2024, time.March).Return(cal, nil)

	req := authenticated(httptest.NewRequest(http.MethodGet, "/calendar?month=2024-03", nil), practitionerID)
	rec := httptest.NewRecorder()
	NewCalendarHandler(uc).GetCalendar(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.CalendarResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, "2024-03-10", resp.Days[0].Date)
	require.Len(t, resp.Days[0].Appointments, 2)
	assert.Equal(t, "Cancelled", resp.Days[0].Appointments[0].Status)
	assert.Equal(t, 1, resp.StatusCounts["Scheduled"])
	assert.Equal(t, 1, resp.StatusCounts["Cancelled"])
	uc.AssertExpectations(t)
}

func TestCalendarHandler_Range(t *testing.T) {
	practitionerID := uuid.New()
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 16, 23, 59, 59, 0, time.UTC)

	uc := new(mockCalendarUsecase)
	uc.On("ForRange", mock.Anything, practitionerID, start, end).
		Return(entity.NewCalendar(entity.AppointmentRange{PractitionerID: practitionerID, From: start, To: end}, time.UTC, nil), nil)

	req := authenticated(httptest.NewRequest(http.MethodGet, "/calendar?start=2024-03-10T00:00:00Z&end=2024-03-16T23:59:59Z", nil), practitionerID)
	rec := httptest.NewRecorder()
	NewCalendarHandler(uc).GetCalendar(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.CalendarResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &resp))
	assert.Empty(t, resp.Days)
	assert.Zero(t, resp.Total)
	uc.AssertExpectations(t)
}

func TestCalendarHandler_DefaultsToCurrentMonth(t *testing.T) {
	practitionerID := uuid.New()
	uc := new(mockCalendarUsecase)
	uc.On("Month", mock.Anything, practitionerID, 2025, time.July).
		Return(entity.NewCalendar(entity.AppointmentRange{}, time.UTC, nil), nil)

	h := NewCalendarHandler(uc)
	h.now = func() time.Time { return time.Date(2025, 7, 14, 12, 0, 0, 0, time.UTC) }

	rec := httptest.NewRecorder()
	h.GetCalendar(rec, authenticated(httptest.NewRequest(http.MethodGet, "/calendar", nil), practitionerID))

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestCalendarHandler_BadQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		field string
	}{
		{"bad month", "?month=03-2024", "month"},
		{"bad start", "?start=yesterday&end=2024-03-16T23:59:59Z", "start"},
		{"missing end", "?start=2024-03-10T00:00:00Z", "end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockCalendarUsecase)

			rec := httptest.NewRecorder()
			NewCalendarHandler(uc).GetCalendar(rec, authenticated(httptest.NewRequest(http.MethodGet, "/calendar"+tt.query, nil), uuid.New()))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var fields map[string]string
			require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Error, &fields))
			assert.Contains(t, fields, tt.field)
			uc.AssertNotCalled(t, "Month", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			uc.AssertNotCalled(t, "ForRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCalendarHandler_StartAfterEnd(t *testing.T) {
	practitionerID := uuid.New()
	uc := new(mockCalendarUsecase)
	uc.On("ForRange", mock.Anything, practitionerID, mock.Anything, mock.Anything).
		Return(nil, apperror.Validation("validation failed", map[string]string{"start": "start must not be after end"}))

	rec := httptest.NewRecorder()
	NewCalendarHandler(uc).GetCalendar(rec, authenticated(httptest.NewRequest(http.MethodGet,
		"/calendar?start=2024-03-16T00:00:00Z&end=2024-03-10T00:00:00Z", nil), practitionerID))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: connection refused") }

	rec := httptest.NewRecorder()
	NewHealthHandler(map[string]HealthCheck{"database": ok, "redis": ok}).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NewHealthHandler(map[string]HealthCheck{"database": ok, "redis": down}).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.True(t, body.Retryable)
	var status map[string]string
	require.NoError(t, json.Unmarshal(body.Data, &status))
	assert.Equal(t, map[string]string{"database": "ok", "redis": "down"}, status)
}
