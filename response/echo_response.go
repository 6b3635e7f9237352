package response

import (
	"net/http"
	"strings"

	"github.com/AndreeJait/email-storm/loggerw"
	"github.com/labstack/echo/v4"
)

// Response struct
type Response struct {
	Success   bool        `json:"success" example:"true"`
	Message   string      `json:"message" example:"success"`
	RequestID string      `json:"request_id" example:"request_id"`
	Data      interface{} `json:"data"`
}

// Data is an alias for map
type Data map[string]interface{}

func buildResponseMsg(defaultMsg string, msg ...string) string {
	if len(msg) == 0 {
		return defaultMsg
	}
	return strings.Join(msg, ", ")
}

// Success responses with JSON format-responseMsg
func Success(c echo.Context, code int, data interface{}, msg ...string) error {
	if data == nil {
		data = Data{}
	}

	return c.JSON(code, Response{
		Success:   true,
		Message:   buildResponseMsg("Success", msg...),
		RequestID: loggerw.GetRequestID(c.Request().Context()),
		Data:      data,
	})
}

// SuccessOK returns code 200
func SuccessOK(c echo.Context, data interface{}, msg ...string) error {
	return Success(c, http.StatusOK, data, msg...)
}
