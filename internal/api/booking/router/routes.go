// Package router đăng ký các route thuộc domain booking.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	bookinghdl "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/booking/handler"
	bookingsvc "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/booking/service"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/middleware"
	apirouter "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/router"
)

// Register đăng ký các route booking lên v1.
func Register(v1 fiber.Router, svc *bookingsvc.BookingService) error {
	bookingHandler, err := bookinghdl.NewBookingHandler(svc)
	if err != nil {
		return fmt.Errorf("tạo BookingHandler: %w", err)
	}

	middlewares := []fiber.Handler{middleware.IdentityMiddleware()}

	// POST /bookings — tạo booking (identity không bắt buộc)
	apirouter.RegisterRouteWithMiddleware(v1, "/bookings", "POST", "/", middlewares, bookingHandler.HandleCreate)
	// GET /bookings/find-by-id/:id
	apirouter.RegisterRouteWithMiddleware(v1, "/bookings", "GET", "/find-by-id/:id", middlewares, bookingHandler.HandleFindById)
	// GET /bookings/code/:shortCode
	apirouter.RegisterRouteWithMiddleware(v1, "/bookings", "GET", "/code/:shortCode", middlewares, bookingHandler.HandleFindByCode)
	// PUT /bookings/:id/status — staff cập nhật trạng thái
	apirouter.RegisterRouteWithMiddleware(v1, "/bookings", "PUT", "/:id/status", middlewares, bookingHandler.HandleUpdateStatus)
	// POST /bookings/reschedule — body {shortCode}
	apirouter.RegisterRouteWithMiddleware(v1, "/bookings", "POST", "/reschedule", middlewares, bookingHandler.HandleRescheduleByCode)
	// POST /bookings/:id/reschedule — path nhận hex id hoặc shortCode
	apirouter.RegisterRouteWithMiddleware(v1, "/bookings", "POST", "/:id/reschedule", middlewares, bookingHandler.HandleReschedule)

	return nil
}
