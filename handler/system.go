package handler

import (
	"github.com/AndreeJait/email-storm/response"
	"github.com/labstack/echo/v4"
)

func (h *Handler) Health(c echo.Context) error {
	h.logger(c).Info("health check requested")
	return response.SuccessOK(c, response.Data{
		"status":  "healthy",
		"message": "Email Campaign API is running",
	})
}

func (h *Handler) SystemInfo(c echo.Context) error {
	systemID, err := h.license.SystemInfo(c.Request().Context())
	if err != nil {
		return err
	}
	return response.SuccessOK(c, response.Data{"systemId": systemID})
}

// CheckActivation always answers 200; problems are carried in the status.
func (h *Handler) CheckActivation(c echo.Context) error {
	return response.SuccessOK(c, h.license.CheckActivation(c.Request().Context()))
}

func (h *Handler) Shutdown(c echo.Context) error {
	h.logger(c).Info("received shutdown request, signaling graceful exit")
	err := response.SuccessOK(c, nil, "Backend received shutdown request. Attempting graceful exit.")
	h.shutdown()
	return err
}
