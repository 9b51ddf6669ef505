package http

import (
	"errors"
	"net/http"
	"strconv"

	"go-stock-portfolio/internal/portfolio/dto"
	"go-stock-portfolio/internal/portfolio/service"
	"go-stock-portfolio/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StockHandler handles HTTP requests for portfolio positions.
type StockHandler struct {
	stockService service.StockService
	logger       *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService service.StockService, logger *logger.Logger) *StockHandler {
	return &StockHandler{stockService: stockService, logger: logger}
}

// RegisterRoutes registers the stock routes to the Echo group. The group is
// expected to carry the session middleware.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetPortfolio)
	g.POST("", h.AddStock)
	g.GET("/:id/chart", h.GetChart)
	g.DELETE("/:id", h.DeleteStock)
}

// GetPortfolio godoc
// @Summary List the portfolio
// @Description List the session user's positions, refreshing stale valuations
// @Tags stocks
// @Produce  json
// @Success 200 {object} dto.PortfolioResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /stocks [get]
func (h *StockHandler) GetPortfolio(c echo.Context) error {
	portfolio, err := h.stockService.GetPortfolio(c.Request().Context(), currentUserID(c))
	if err != nil {
		h.logger.Error("Failed to load portfolio", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load portfolio"})
	}
	return c.JSON(http.StatusOK, portfolio)
}

// AddStock godoc
// @Summary Add a position
// @Tags stocks
// @Accept  json
// @Produce  json
// @Param   stock  body    dto.AddStockRequest   true    "Position to add"
// @Success 201 {object} dto.StockPositionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /stocks [post]
func (h *StockHandler) AddStock(c echo.Context) error {
	var req dto.AddStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	position, err := h.stockService.AddStock(c.Request().Context(), currentUserID(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPosition) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid stock position"})
		}
		h.logger.Error("Failed to add stock", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to add stock"})
	}
	return c.JSON(http.StatusCreated, position)
}

// GetChart godoc
// @Summary Get the weekly chart series for a position
// @Tags stocks
// @Produce  json
// @Param   id  path    int true    "Position ID"
// @Success 200 {object} dto.ChartSeries
// @Failure 404 {object} dto.ErrorResponse
// @Router /stocks/{id}/chart [get]
func (h *StockHandler) GetChart(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid position ID"})
	}

	series, err := h.stockService.GetChart(c.Request().Context(), currentUserID(c), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrPositionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Stock position not found"})
		}
		h.logger.Error("Failed to build chart", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to build chart"})
	}
	return c.JSON(http.StatusOK, series)
}

// DeleteStock godoc
// @Summary Delete a position
// @Tags stocks
// @Produce  json
// @Param   id  path    int true    "Position ID"
// @Success 204 {object} nil
// @Failure 404 {object} dto.ErrorResponse
// @Router /stocks/{id} [delete]
func (h *StockHandler) DeleteStock(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid position ID"})
	}

	if err := h.stockService.DeleteStock(c.Request().Context(), currentUserID(c), uint(id)); err != nil {
		if errors.Is(err, service.ErrPositionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Stock position not found"})
		}
		h.logger.Error("Failed to delete stock", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete stock"})
	}
	return c.NoContent(http.StatusNoContent)
}
