package handler

import (
	"net/http"

	"github.com/AndreeJait/email-storm/loggerw"
	"github.com/AndreeJait/email-storm/response"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type ServerOption struct {
	AccessLog bool
	// StackTrace logs the stack of every error answered by the server.
	StackTrace bool
	// BodyLimit such as "64M". Empty disables the limit.
	BodyLimit string
}

// NewServer builds the echo instance with the shared middleware chain and
// error handler, then registers every route of h.
func NewServer(log loggerw.Logger, h *Handler, opt ServerOption) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = response.CustomHttpErrorHandler(log, response.MapDefaultErrResponse, opt.StackTrace)

	e.Use(middleware.Recover())
	e.Use(loggerw.LoggerWitRequestID(log, opt.AccessLog))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"*"},
	}))
	if opt.BodyLimit != "" {
		e.Use(middleware.BodyLimit(opt.BodyLimit))
	}

	h.Register(e)
	return e
}
