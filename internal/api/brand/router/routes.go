// Package router đăng ký các route thuộc domain brand.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	brandhdl "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/brand/handler"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/middleware"
	apirouter "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/router"
)

// Register đăng ký các route brand lên v1.
func Register(v1 fiber.Router) error {
	brandHandler, err := brandhdl.NewBrandHandler()
	if err != nil {
		return fmt.Errorf("tạo BrandHandler: %w", err)
	}

	middlewares := []fiber.Handler{middleware.IdentityMiddleware()}

	// POST /brands/insert-one
	apirouter.RegisterRouteWithMiddleware(v1, "/brands", "POST", "/insert-one", middlewares, brandHandler.HandleInsertOne)
	// GET /brands/find — query: active=true
	apirouter.RegisterRouteWithMiddleware(v1, "/brands", "GET", "/find", middlewares, brandHandler.HandleFind)
	// GET /brands/find-one — query: id hoặc name
	apirouter.RegisterRouteWithMiddleware(v1, "/brands", "GET", "/find-one", middlewares, brandHandler.HandleFindOne)
	// PUT /brands/update-by-id/:id
	apirouter.RegisterRouteWithMiddleware(v1, "/brands", "PUT", "/update-by-id/:id", middlewares, brandHandler.HandleUpdateById)
	// DELETE /brands/delete-by-id/:id
	apirouter.RegisterRouteWithMiddleware(v1, "/brands", "DELETE", "/delete-by-id/:id", middlewares, brandHandler.HandleDeleteById)

	return nil
}
