// Package router đăng ký các route thuộc domain activity (chỉ đọc).
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	activityhdl "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/activity/handler"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/middleware"
	apirouter "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/router"
)

// Register đăng ký các route activity lên v1.
func Register(v1 fiber.Router) error {
	activityHandler, err := activityhdl.NewActivityHandler()
	if err != nil {
		return fmt.Errorf("tạo ActivityHandler: %w", err)
	}

	middlewares := []fiber.Handler{middleware.IdentityMiddleware()}

	// GET /activities/find — query: limit
	apirouter.RegisterRouteWithMiddleware(v1, "/activities", "GET", "/find", middlewares, activityHandler.HandleFind)
	// GET /activities/booking/:id
	apirouter.RegisterRouteWithMiddleware(v1, "/activities", "GET", "/booking/:id", middlewares, activityHandler.HandleFindByBooking)

	return nil
}
