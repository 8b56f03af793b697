package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	common "github.com/c14220110/poliklinik-antrian/internal/common/models"
)

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, common.Response{Status: status, Message: message, Data: data})
}

func bindValid(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}
	if err := c.Validate(req); err != nil {
		return false, respond(c, http.StatusBadRequest, err.Error(), nil)
	}
	return true, nil
}
