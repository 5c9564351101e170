package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/flightprofit/internal/domain"
	"github.com/Domenick1991/flightprofit/internal/service/planner"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type FlightPlanHandler struct {
	service planner.PlannerUseCase
}

type saveNameRequest struct {
	SaveName string `json:"save_name"`
}

type routeRequest struct {
	UKAirport      string `json:"uk_airport" binding:"required"`
	ForeignAirport string `json:"foreign_airport" binding:"required"`
}

type aircraftRequest struct {
	AircraftID    int64 `json:"aircraft_id" binding:"required"`
	NumFirstClass *int  `json:"num_first_class" binding:"required"`
}

// Prices are accepted as JSON strings or numbers.
type pricingRequest struct {
	StandardClassPrice *decimal.Decimal `json:"standard_class_price" binding:"required"`
	FirstClassPrice    *decimal.Decimal `json:"first_class_price" binding:"required"`
}

type airportPlanResponse struct {
	UKAirport      string          `json:"uk_airport,omitempty"`
	UKAirportName  string          `json:"uk_airport_name,omitempty"`
	ForeignAirport *domain.Airport `json:"foreign_airport,omitempty"`
	Distance       *int            `json:"distance,omitempty"`
}

type aircraftPlanResponse struct {
	Aircraft         *domain.Aircraft `json:"aircraft,omitempty"`
	NumFirstClass    *int             `json:"num_first_class,omitempty"`
	NumStandardClass *int             `json:"num_standard_class,omitempty"`
	InRange          *bool            `json:"in_range,omitempty"`
}

type pricingPlanResponse struct {
	StandardClassPrice *string `json:"standard_class_price,omitempty"`
	FirstClassPrice    *string `json:"first_class_price,omitempty"`
	CostPerSeat        *string `json:"cost_per_seat,omitempty"`
	RunningCost        *string `json:"running_cost,omitempty"`
	Income             *string `json:"income,omitempty"`
	Profit             *string `json:"profit,omitempty"`
	Profitable         *bool   `json:"profitable,omitempty"`
}

type flightPlanResponse struct {
	ID           int64                `json:"id"`
	SaveName     string               `json:"save_name"`
	Created      string               `json:"created"`
	Status       string               `json:"status"`
	AirportPlan  airportPlanResponse  `json:"airport_plan"`
	AircraftPlan aircraftPlanResponse `json:"aircraft_plan"`
	PricingPlan  pricingPlanResponse  `json:"pricing_plan"`
}

type profitResponse struct {
	FlightPlanID int64  `json:"flight_plan_id"`
	CostPerSeat  string `json:"cost_per_seat"`
	RunningCost  string `json:"running_cost"`
	Income       string `json:"income"`
	Profit       string `json:"profit"`
	Profitable   bool   `json:"profitable"`
}

func NewFlightPlanHandler(service planner.PlannerUseCase) *FlightPlanHandler {
	return &FlightPlanHandler{service: service}
}

// Register expects a group that already runs RequireUser.
func (h *FlightPlanHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.GET("/:id", h.get)
	router.PATCH("/:id", h.rename)
	router.DELETE("/:id", h.delete)
	router.PUT("/:id/airport", h.setRoute)
	router.PUT("/:id/aircraft", h.setAircraft)
	router.PUT("/:id/pricing", h.setPrices)
	router.GET("/:id/profit", h.profit)
}

func (h *FlightPlanHandler) list(c *gin.Context) {
	plans, err := h.service.List(c.Request.Context(), c.GetInt64(userIDKey))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]flightPlanResponse, 0, len(plans))
	for i := range plans {
		resp = append(resp, toFlightPlanResponse(&plans[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FlightPlanHandler) create(c *gin.Context) {
	var req saveNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.service.Create(c.Request.Context(), c.GetInt64(userIDKey), req.SaveName)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFlightPlanResponse(plan))
}

func (h *FlightPlanHandler) get(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	plan, err := h.service.Get(c.Request.Context(), c.GetInt64(userIDKey), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightPlanResponse(plan))
}

func (h *FlightPlanHandler) rename(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	var req saveNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.service.Rename(c.Request.Context(), c.GetInt64(userIDKey), id, req.SaveName)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightPlanResponse(plan))
}

func (h *FlightPlanHandler) delete(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.GetInt64(userIDKey), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FlightPlanHandler) setRoute(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.service.SetRoute(c.Request.Context(), c.GetInt64(userIDKey), id, planner.RouteInput{
		UKAirport:      req.UKAirport,
		ForeignAirport: req.ForeignAirport,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightPlanResponse(plan))
}

func (h *FlightPlanHandler) setAircraft(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	var req aircraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.service.SetAircraft(c.Request.Context(), c.GetInt64(userIDKey), id, planner.AircraftInput{
		AircraftID:    req.AircraftID,
		NumFirstClass: *req.NumFirstClass,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightPlanResponse(plan))
}

func (h *FlightPlanHandler) setPrices(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	var req pricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.service.SetPrices(c.Request.Context(), c.GetInt64(userIDKey), id, planner.PricesInput{
		StandardClassPrice: *req.StandardClassPrice,
		FirstClassPrice:    *req.FirstClassPrice,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightPlanResponse(plan))
}

func (h *FlightPlanHandler) profit(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	plan, figures, err := h.service.Profit(c.Request.Context(), c.GetInt64(userIDKey), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profitResponse{
		FlightPlanID: plan.ID,
		CostPerSeat:  figures.CostPerSeat.StringFixed(2),
		RunningCost:  figures.RunningCost.StringFixed(2),
		Income:       figures.Income.StringFixed(2),
		Profit:       figures.Profit.StringFixed(2),
		Profitable:   figures.Profitable(),
	})
}

func toFlightPlanResponse(plan *domain.FlightPlan) flightPlanResponse {
	resp := flightPlanResponse{
		ID:       plan.ID,
		SaveName: plan.SaveName,
		Created:  plan.Created.Format(time.RFC3339),
		Status:   string(plan.Status()),
	}

	ap := plan.AirportPlan
	resp.AirportPlan = airportPlanResponse{
		UKAirport:      string(ap.UKAirport),
		UKAirportName:  ap.UKAirport.Name(),
		ForeignAirport: ap.ForeignAirport,
	}
	if distance, ok := ap.Distance(); ok {
		resp.AirportPlan.Distance = &distance
	}

	cp := plan.AircraftPlan
	resp.AircraftPlan = aircraftPlanResponse{
		Aircraft:      cp.Aircraft,
		NumFirstClass: cp.NumFirstClass,
	}
	if standard, ok := cp.NumStandardClass(); ok {
		resp.AircraftPlan.NumStandardClass = &standard
	}
	if inRange, known := plan.InRange(); known {
		resp.AircraftPlan.InRange = &inRange
	}

	pp := plan.PricingPlan
	resp.PricingPlan = pricingPlanResponse{
		StandardClassPrice: money(pp.StandardClassPrice),
		FirstClassPrice:    money(pp.FirstClassPrice),
		CostPerSeat:        money(pp.CostPerSeat),
		RunningCost:        money(pp.RunningCost),
		Income:             money(pp.Income),
		Profit:             money(pp.Profit),
	}
	if profitable, err := pp.Profitable(); err == nil {
		resp.PricingPlan.Profitable = &profitable
	}
	return resp
}

func money(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.StringFixed(2)
	return &s
}
