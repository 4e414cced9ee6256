package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/repository"
	"github.com/xinwork/repair-order-api/internal/services"
)

type StatisticsHandler struct {
	statisticsService *services.StatisticsService
}

func NewStatisticsHandler(statisticsService *services.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

// report adapts a statistics query to a handler reading start_date and end_date
func report[T any](h *StatisticsHandler, query func(context.Context, repository.TimeWindow) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		window, err := h.statisticsService.ParseWindow(c.Query("start_date"), c.Query("end_date"))
		if err != nil {
			apierrors.Respond(c, err)
			return
		}

		result, err := query(c.Request.Context(), window)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (h *StatisticsHandler) Projects() gin.HandlerFunc {
	return report(h, h.statisticsService.Projects)
}

func (h *StatisticsHandler) Tasks() gin.HandlerFunc {
	return report(h, h.statisticsService.Tasks)
}

func (h *StatisticsHandler) Materials() gin.HandlerFunc {
	return report(h, h.statisticsService.Materials)
}

func (h *StatisticsHandler) WorkItems() gin.HandlerFunc {
	return report(h, h.statisticsService.WorkItems)
}

func (h *StatisticsHandler) Teams() gin.HandlerFunc {
	return report(h, h.statisticsService.Teams)
}
