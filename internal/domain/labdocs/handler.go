package labdocs

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/documents/upload", h.Upload)
	api.GET("/documents", h.List)
}

// uploadErrorResponse is returned when the whole batch failed analysis. The
// per-file documents are included so the caller still sees what was saved.
type uploadErrorResponse struct {
	Error     string     `json:"error"`
	Documents []Response `json:"documents"`
}

func (h *Handler) Upload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart form is required")
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, ErrNoFiles.Error())
	}

	files := make([]UploadFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		src, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to open uploaded file")
		}
		defer src.Close()
		files = append(files, UploadFile{Name: fh.Filename, Content: src})
	}

	docs, err := h.svc.Upload(c.Request().Context(), files)
	if err != nil {
		if errors.Is(err, ErrAnalyzerDown) {
			return c.JSON(http.StatusServiceUnavailable, uploadErrorResponse{
				Error:     ErrAnalyzerDown.Error(),
				Documents: ToResponses(docs),
			})
		}
		if errors.Is(err, ErrNoFiles) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, ToResponses(docs))
}

func (h *Handler) List(c echo.Context) error {
	docs, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, ToResponses(docs))
}
