package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	models "FinSight/internal/domain/models"
	"FinSight/internal/usecase"
	xhttp "FinSight/pkg/http"
	xlogger "FinSight/pkg/logger"
)

// DecisionHandler exposes the decision use cases over HTTP.
type DecisionHandler struct {
	logger *xlogger.Logger
	svc    *usecase.DecisionService
}

func NewDecisionHandler(logger *xlogger.Logger, svc *usecase.DecisionService) *DecisionHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &DecisionHandler{logger: logger, svc: svc}
}

func (h *DecisionHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/decide", h.Decide)
	g.POST("/decide/simple", h.DecideSimple)
	g.GET("/sample", h.Sample)
	g.POST("/sessions", h.CreateSession)
	g.GET("/sessions/:id", h.GetSession)
	g.DELETE("/sessions/:id", h.DeleteSession)
	g.GET("/recommendations/:ticker", h.Recommendation)
}

// Decide runs the regime-aware pipeline.
func (h *DecisionHandler) Decide(c echo.Context) error {
	req := &models.DecideRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	out, err := h.svc.Decide(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "decide", err)
	}
	return xhttp.SuccessResponse(c, out)
}

// DecideSimple runs the single-stage mode.
func (h *DecisionHandler) DecideSimple(c echo.Context) error {
	req := &models.SimpleDecideRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	out, err := h.svc.DecideSimple(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "decide simple", err)
	}
	return xhttp.SuccessResponse(c, out)
}

func (h *DecisionHandler) Sample(c echo.Context) error {
	req := &models.SampleRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	s, err := h.svc.Sample(c.Request().Context(), req.Ticker)
	if err != nil {
		return h.fail(c, "sample", err)
	}
	return xhttp.SuccessResponse(c, s)
}

func (h *DecisionHandler) CreateSession(c echo.Context) error {
	req := &models.SessionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	info, err := h.svc.CreateSession(req.Prior)
	if err != nil {
		return h.fail(c, "create session", err)
	}
	return xhttp.CreatedResponse(c, info)
}

func (h *DecisionHandler) GetSession(c echo.Context) error {
	info, err := h.svc.Session(c.Param("id"))
	if err != nil {
		return h.fail(c, "get session", err)
	}
	return xhttp.SuccessResponse(c, info)
}

func (h *DecisionHandler) DeleteSession(c echo.Context) error {
	if err := h.svc.DeleteSession(c.Param("id")); err != nil {
		return h.fail(c, "delete session", err)
	}
	return xhttp.NoContentResponse(c)
}

// Recommendation returns the latest export stored for a ticker.
func (h *DecisionHandler) Recommendation(c echo.Context) error {
	req := &models.RecommendationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	e, err := h.svc.Recommendation(c.Request().Context(), req.Ticker)
	if err != nil {
		return h.fail(c, "recommendation", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, e)
}

func (h *DecisionHandler) fail(c echo.Context, op string, err error) error {
	appErr := toAppError(err)
	if appErr.Status >= 500 {
		h.logger.Error(op+" usecase error", xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}

// toAppError maps the domain error taxonomy onto HTTP statuses.
func toAppError(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, models.ErrLabelMismatch):
		return xhttp.BadRequestError(err.Error()).WithError(err).WithCode("ERR_LABEL_MISMATCH")
	case errors.Is(err, models.ErrInvalidInput):
		return xhttp.BadRequestError(err.Error()).WithError(err).WithCode("ERR_INVALID_INPUT")
	case errors.Is(err, models.ErrNotFound):
		return xhttp.NotFoundError(err.Error()).WithError(err)
	case errors.Is(err, models.ErrClassifier):
		return xhttp.BadGatewayError("model unavailable").WithError(err).WithCode("ERR_CLASSIFIER")
	default:
		return xhttp.InternalError("Something went wrong").WithError(err)
	}
}
