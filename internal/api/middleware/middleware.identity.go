// Package middleware - middleware xác định danh tính người gọi.
//
// Việc verify token nằm ở gateway phía trước (external collaborator);
// service này tin các header danh tính gateway đã gắn sau khi verify:
// X-User-Id, X-User-Role, X-User-Email.
package middleware

import (
	"github.com/gofiber/fiber/v3"
)

// Các key lưu danh tính trong fiber Locals.
const (
	LocalUserID    = "user_id"
	LocalUserRole  = "user_role"
	LocalUserEmail = "user_email"
)

// IdentityMiddleware đọc danh tính từ header gateway và lưu vào Locals.
// Không reject request thiếu danh tính — các operation cần quyền
// (reschedule) tự kiểm tra và trả PermissionError.
func IdentityMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if v := c.Get("X-User-Id"); v != "" {
			c.Locals(LocalUserID, v)
		}
		if v := c.Get("X-User-Role"); v != "" {
			c.Locals(LocalUserRole, v)
		}
		if v := c.Get("X-User-Email"); v != "" {
			c.Locals(LocalUserEmail, v)
		}
		return c.Next()
	}
}
