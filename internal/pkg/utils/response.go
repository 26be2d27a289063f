package utils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/listing-service/internal/domain"
	"github.com/listing-service/internal/pkg/errors"
)

type SuccessResponse struct {
	Data    interface{}     `json:"data"`
	Meta    *Meta           `json:"meta,omitempty"`
	Notices []domain.Notice `json:"notices,omitempty"`
}

type ErrorResponse struct {
	Error    *errors.AppError `json:"error"`
	Notices  []domain.Notice  `json:"notices,omitempty"`
	Redirect string           `json:"redirect,omitempty"`
}

type Meta struct {
	Total    int    `json:"total,omitempty"`
	Category string `json:"category,omitempty"`
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta, notices ...domain.Notice) error {
	return c.JSON(SuccessResponse{
		Data:    data,
		Meta:    meta,
		Notices: notices,
	})
}

func SendCreated(c *fiber.Ctx, data interface{}, notices ...domain.Notice) error {
	return c.Status(fiber.StatusCreated).JSON(SuccessResponse{
		Data:    data,
		Notices: notices,
	})
}

// SendRedirect - ответ-эквивалент редиректа с уведомлением
func SendRedirect(c *fiber.Ctx, status int, location string, appErr *errors.AppError, notices ...domain.Notice) error {
	c.Location(location)
	return c.Status(status).JSON(ErrorResponse{
		Error:    appErr,
		Notices:  notices,
		Redirect: location,
	})
}

func SendError(c *fiber.Ctx, err error) error {
	if appErr, ok := errors.As(err); ok {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Error: appErr,
		})
	}

	// Unknown error - return 500
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: errors.ErrInternalServer,
	})
}
