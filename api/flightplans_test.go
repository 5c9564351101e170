package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/flightprofit/internal/domain"
	"github.com/Domenick1991/flightprofit/internal/service/planner"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPlannerUseCase is a mock implementation of planner.PlannerUseCase
type MockPlannerUseCase struct {
	mock.Mock
}

func (m *MockPlannerUseCase) Create(ctx context.Context, userID int64, saveName string) (*domain.FlightPlan, error) {
	args := m.Called(ctx, userID, saveName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightPlan), args.Error(1)
}

func (m *MockPlannerUseCase) Get(ctx context.Context, userID, planID int64) (*domain.FlightPlan, error) {
	args := m.Called(ctx, userID, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightPlan), args.Error(1)
}

func (m *MockPlannerUseCase) List(ctx context.Context, userID int64) ([]domain.FlightPlan, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.FlightPlan), args.Error(1)
}

func (m *MockPlannerUseCase) Rename(ctx context.Context, userID, planID int64, saveName string) (*domain.FlightPlan, error) {
	args := m.Called(ctx, userID, planID, saveName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightPlan), args.Error(1)
}

func (m *MockPlannerUseCase) Delete(ctx context.Context, userID, planID int64) error {
	args := m.Called(ctx, userID, planID)
	return args.Error(0)
}

func (m *MockPlannerUseCase) SetRoute(ctx context.Context, userID, planID int64, input planner.RouteInput) (*domain.FlightPlan, error) {
	args := m.Called(ctx, userID, planID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightPlan), args.Error(1)
}

func (m *MockPlannerUseCase) SetAircraft(ctx context.Context, userID, planID int64, input planner.AircraftInput) (*domain.FlightPlan, error) {
	args := m.Called(ctx, userID, planID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightPlan), args.Error(1)
}

func (m *MockPlannerUseCase) SetPrices(ctx context.Context, userID, planID int64, input planner.PricesInput) (*domain.FlightPlan, error) {
	args := m.Called(ctx, userID, planID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightPlan), args.Error(1)
}

func (m *MockPlannerUseCase) Profit(ctx context.Context, userID, planID int64) (*domain.FlightPlan, domain.Figures, error) {
	args := m.Called(ctx, userID, planID)
	if args.Get(0) == nil {
		return nil, domain.Figures{}, args.Error(2)
	}
	return args.Get(0).(*domain.FlightPlan), args.Get(1).(domain.Figures), args.Error(2)
}

func (m *MockPlannerUseCase) RecomputeAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

var created = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRouter(service planner.PlannerUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewFlightPlanHandler(service).Register(router.Group("/flightplans", RequireUser()))
	return router
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "3")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func completePlan(t *testing.T) *domain.FlightPlan {
	plan, err := domain.NewFlightPlan(3, "Summer route", created)
	require.NoError(t, err)
	plan.ID = 5
	require.NoError(t, plan.SetRoute(domain.UKAirportLiverpool, &domain.Airport{Code: "AAA", Name: "Airport A", DistanceFromLPL: 500}))
	require.NoError(t, plan.SetAircraft(&domain.Aircraft{ID: 7, Type: "Aircraft X", RunningCost: decimal.RequireFromString("10.00"), Range: 1000, MaxStandardClass: 150}, 10))
	require.NoError(t, plan.SetPrices(decimal.RequireFromString("50.00"), decimal.RequireFromString("120.00")))
	return plan
}

func TestRequireUser(t *testing.T) {
	router := newTestRouter(&MockPlannerUseCase{})

	for _, header := range []string{"", "abc", "0", "-4"} {
		req := httptest.NewRequest(http.MethodGet, "/flightplans", nil)
		if header != "" {
			req.Header.Set("X-User-ID", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestFlightPlanHandler_create(t *testing.T) {
	mockService := &MockPlannerUseCase{}
	router := newTestRouter(mockService)

	plan, _ := domain.NewFlightPlan(3, "Summer route", created)
	plan.ID = 5
	mockService.On("Create", mock.Anything, int64(3), "Summer route").Return(plan, nil).Once()

	w := doRequest(router, http.MethodPost, "/flightplans", saveNameRequest{SaveName: "Summer route"})

	assert.Equal(t, http.StatusCreated, w.Code)
	var response flightPlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(5), response.ID)
	assert.Equal(t, "empty", response.Status)
	assert.Equal(t, "2024-03-01T12:00:00Z", response.Created)
	assert.Nil(t, response.PricingPlan.Profit)
	mockService.AssertExpectations(t)
}

func TestFlightPlanHandler_create_ValidationError(t *testing.T) {
	mockService := &MockPlannerUseCase{}
	router := newTestRouter(mockService)

	mockService.On("Create", mock.Anything, int64(3), "").
		Return(nil, &domain.ValidationError{Field: "save_name", Message: "a save name is required"}).Once()

	w := doRequest(router, http.MethodPost, "/flightplans", saveNameRequest{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"a save name is required","field":"save_name"}`, w.Body.String())
}

func TestFlightPlanHandler_get(t *testing.T) {
	mockService := &MockPlannerUseCase{}
	router := newTestRouter(mockService)

	mockService.On("Get", mock.Anything, int64(3), int64(5)).Return(completePlan(t), nil).Once()

	w := doRequest(router, http.MethodGet, "/flightplans/5", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var response flightPlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "complete", response.Status)
	assert.Equal(t, "LPL", response.AirportPlan.UKAirport)
	assert.Equal(t, 500, *response.AirportPlan.Distance)
	assert.Equal(t, 130, *response.AircraftPlan.NumStandardClass)
	assert.True(t, *response.AircraftPlan.InRange)
	assert.Equal(t, "50.00", *response.PricingPlan.CostPerSeat)
	assert.Equal(t, "700.00", *response.PricingPlan.Profit)
	assert.True(t, *response.PricingPlan.Profitable)
}

func TestFlightPlanHandler_get_Errors(t *testing.T) {
	mockService := &MockPlannerUseCase{}
	router := newTestRouter(mockService)

	mockService.On("Get", mock.Anything, int64(3), int64(9)).Return(nil, domain.ErrFlightPlanNotFound).Once()
	mockService.On("Get", mock.Anything, int64(3), int64(10)).Return(nil, errors.New("connection refused")).Once()

	assert.Equal(t, http.StatusBadRequest, doRequest(router, http.MethodGet, "/flightplans/abc", nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(router, http.MethodGet, "/flightplans/9", nil).Code)

	w := doRequest(router, http.MethodGet, "/flightplans/10", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestFlightPlanHandler_list(t *testing.T) {
	mockService := &MockPlannerUseCase{}
	router := newTestRouter(mockService)

	mockService.On("List", mock.Anything, int64(3)).Return([]domain.FlightPlan{*completePlan(t)}, nil).Once()

	w := doRequest(router, http.MethodGet, "/flightplans", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var response []flightPlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 1)
	assert.Equal(t, "Summer route", response[0].SaveName)
}

func TestFlightPlanHandler_rename(t *testing.T) {
	mockService := &MockPlannerUseCase{}
	router := newTestRouter(mockService)

	plan := completePlan(t)
	plan.SaveName = "Autumn route"
	mockService.On("Rename", mock.Anything, int64(3), int64(5), "Autumn route").Return(plan, nil).Once()

	w := doRequest(router, http.MethodPatch, "/flightplans/5", saveNameRequest{SaveName: "Autumn route"})

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightPlanHandler_delete(t *testing.T) {
	mockService := &MockPlannerUseCase{}
	router := newTestRouter(mockService)

	mockService.On("Delete", mock.Anything, int64(3), int64(5)).Return(nil).Once()

	w := doRequest(router, http.MethodDelete, "/flightplans/5", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightPlanHandler_setRoute(t *testing.T) {
	mockService := &MockPlannerUseCase{}
	router := newTestRouter(mockService)

	input := planner.RouteInput{UKAirport: "LPL", ForeignAirport: "ZZZ"}
	mockService.On("SetRoute", mock.Anything, int64(3), int64(5), input).
		Return(nil, &domain.ReferentialError{Entity: "airport", Key: "ZZZ"}).Once()

	w := doRequest(router, http.MethodPut, "/flightplans/5/airport", routeRequest{UKAirport: "LPL", ForeignAirport: "ZZZ"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"airport \"ZZZ\" does not exist"}`, w.Body.String())

	w = doRequest(router, http.MethodPut, "/flightplans/5/airport", map[string]string{"uk_airport": "LPL"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNumberOfCalls(t, "SetRoute", 1)
}

func TestFlightPlanHandler_setAircraft(t *testing.T) {
	mockService := &MockPlannerUseCase{}
	router := newTestRouter(mockService)

	input := planner.AircraftInput{AircraftID: 7, NumFirstClass: 0}
	mockService.On("SetAircraft", mock.Anything, int64(3), int64(5), input).Return(completePlan(t), nil).Once()

	w := doRequest(router, http.MethodPut, "/flightplans/5/aircraft", map[string]int{"aircraft_id": 7, "num_first_class": 0})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPut, "/flightplans/5/aircraft", map[string]int{"aircraft_id": 7})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightPlanHandler_setPrices(t *testing.T) {
	mockService := &MockPlannerUseCase{}
	router := newTestRouter(mockService)

	mockService.On("SetPrices", mock.Anything, int64(3), int64(5), mock.MatchedBy(func(in planner.PricesInput) bool {
		return in.StandardClassPrice.Equal(decimal.RequireFromString("50")) &&
			in.FirstClassPrice.Equal(decimal.RequireFromString("120.5"))
	})).Return(completePlan(t), nil).Once()

	w := doRequest(router, http.MethodPut, "/flightplans/5/pricing", map[string]string{
		"standard_class_price": "50.00",
		"first_class_price":    "120.50",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightPlanHandler_profit(t *testing.T) {
	mockService := &MockPlannerUseCase{}
	router := newTestRouter(mockService)

	plan := completePlan(t)
	figures, err := plan.Profit()
	require.NoError(t, err)
	mockService.On("Profit", mock.Anything, int64(3), int64(5)).Return(plan, figures, nil).Once()
	mockService.On("Profit", mock.Anything, int64(3), int64(6)).Return(nil, domain.Figures{}, domain.ErrIncomplete).Once()

	w := doRequest(router, http.MethodGet, "/flightplans/5/profit", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"flight_plan_id":5,"cost_per_seat":"50.00","running_cost":"7000.00","income":"7700.00","profit":"700.00","profitable":true}`, w.Body.String())

	w = doRequest(router, http.MethodGet, "/flightplans/6/profit", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
