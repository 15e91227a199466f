package handler

import "github.com/labstack/echo/v4"

// envelope is the common response wrapper emitted by every handler. The same
// shape is produced by the central error handler for failures.
type envelope struct {
	OK      bool   `json:"ok"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func respond(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, envelope{OK: code < 400, Code: code, Message: message, Data: data})
}
