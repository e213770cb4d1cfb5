// Package activityhdl - Handler đọc audit trail cho dashboard.
package activityhdl

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	activitysvc "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/activity/service"
	basehdl "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/base/handler"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/common"
)

// ActivityHandler xử lý các endpoint đọc activity events.
// Audit trail là append-only — không có endpoint ghi/sửa/xóa.
type ActivityHandler struct {
	ActivityService *activitysvc.ActivityService
}

// NewActivityHandler tạo ActivityHandler mới.
func NewActivityHandler() (*ActivityHandler, error) {
	svc, err := activitysvc.NewActivityService()
	if err != nil {
		return nil, fmt.Errorf("tạo ActivityService: %w", err)
	}
	return &ActivityHandler{ActivityService: svc}, nil
}

// HandleFind xử lý GET /activities/find. Query: limit (mặc định 100, tối đa 500).
func (h *ActivityHandler) HandleFind(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		limit, _ := strconv.ParseInt(c.Query("limit", "100"), 10, 64)
		eventList, err := h.ActivityService.FindRecent(c.Context(), limit)
		basehdl.HandleResponse(c, eventList, err)
		return nil
	})
}

// HandleFindByBooking xử lý GET /activities/booking/:id
func (h *ActivityHandler) HandleFindByBooking(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		id, err := primitive.ObjectIDFromHex(c.Params("id"))
		if err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		eventList, err := h.ActivityService.FindByBooking(c.Context(), id)
		basehdl.HandleResponse(c, eventList, err)
		return nil
	})
}
