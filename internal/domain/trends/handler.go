package trends

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/labtrend/labtrend/internal/domain/labdocs"
)

// Handler serves the aggregated trend structure. The structure is purely
// derived: it is rebuilt from the record store's current snapshot on every
// request and never persisted.
type Handler struct {
	repo labdocs.Repository
}

func NewHandler(repo labdocs.Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/trends", h.GetTrends)
}

type trendsResponse struct {
	Sections []SectionTrends `json:"sections"`
}

func (h *Handler) GetTrends(c echo.Context) error {
	docs, err := h.repo.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, trendsResponse{Sections: BuildSeries(docs)})
}
