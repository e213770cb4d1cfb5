// Package bookinghdl - Handler cho domain booking.
package bookinghdl

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/base/handler"
	bookingdto "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/booking/dto"
	bookingsvc "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/booking/service"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/middleware"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/common"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/global"
)

// BookingHandler xử lý các request booking.
type BookingHandler struct {
	BookingService *bookingsvc.BookingService
}

// NewBookingHandler tạo BookingHandler mới với service đã dựng sẵn.
// Service nhận từ ngoài vì nó ôm các thành phần outbound khởi tạo một lần
// lúc start (dispatcher, automation, webhook).
func NewBookingHandler(svc *bookingsvc.BookingService) (*BookingHandler, error) {
	if svc == nil {
		return nil, fmt.Errorf("BookingService chưa được khởi tạo")
	}
	return &BookingHandler{BookingService: svc}, nil
}

// HandleCreate xử lý POST /bookings.
// Identity header không bắt buộc — khách vãng lai vẫn tạo được booking.
func (h *BookingHandler) HandleCreate(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input bookingdto.BookingCreateInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error(),
			))
			return nil
		}

		createdBy := primitive.NilObjectID
		if requester := requesterFromCtx(c); requester.UserID != "" {
			if oid, err := primitive.ObjectIDFromHex(requester.UserID); err == nil {
				createdBy = oid
			}
		}

		booking, err := h.BookingService.Create(c.Context(), &input, createdBy)
		basehdl.HandleResponse(c, booking, err)
		return nil
	})
}

// HandleFindById xử lý GET /bookings/find-by-id/:id
func (h *BookingHandler) HandleFindById(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		id, err := primitive.ObjectIDFromHex(c.Params("id"))
		if err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		booking, err := h.BookingService.FindOneById(c.Context(), id)
		basehdl.HandleResponse(c, booking, err)
		return nil
	})
}

// HandleFindByCode xử lý GET /bookings/code/:shortCode
func (h *BookingHandler) HandleFindByCode(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		code := c.Params("shortCode")
		if code == "" {
			basehdl.HandleResponse(c, nil, common.ErrRequiredField)
			return nil
		}
		booking, err := h.BookingService.FindOneByShortCode(c.Context(), code)
		basehdl.HandleResponse(c, booking, err)
		return nil
	})
}

// HandleUpdateStatus xử lý PUT /bookings/:id/status
func (h *BookingHandler) HandleUpdateStatus(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		id, err := primitive.ObjectIDFromHex(c.Params("id"))
		if err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		var input bookingdto.BookingStatusUpdateInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error(),
			))
			return nil
		}

		requester := requesterFromCtx(c)
		booking, err := h.BookingService.UpdateStatus(c.Context(), id, &input, &requester)
		basehdl.HandleResponse(c, booking, err)
		return nil
	})
}

// HandleReschedule xử lý POST /bookings/:id/reschedule.
// Path param nhận cả hex ObjectID lẫn shortCode.
func (h *BookingHandler) HandleReschedule(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		identifier := c.Params("id")
		if identifier == "" {
			basehdl.HandleResponse(c, nil, common.ErrRequiredField)
			return nil
		}
		requester := requesterFromCtx(c)
		result, err := h.BookingService.RequestReschedule(c.Context(), identifier, &requester)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}

// HandleRescheduleByCode xử lý POST /bookings/reschedule với body {shortCode}
func (h *BookingHandler) HandleRescheduleByCode(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input bookingdto.RescheduleInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}
		input.ShortCode = strings.ToUpper(strings.TrimSpace(input.ShortCode))
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error(),
			))
			return nil
		}
		requester := requesterFromCtx(c)
		result, err := h.BookingService.RequestReschedule(c.Context(), input.ShortCode, &requester)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}

// requesterFromCtx đọc danh tính từ Locals (IdentityMiddleware gắn vào)
func requesterFromCtx(c fiber.Ctx) bookingdto.Requester {
	requester := bookingdto.Requester{}
	if v, ok := c.Locals(middleware.LocalUserID).(string); ok {
		requester.UserID = v
	}
	if v, ok := c.Locals(middleware.LocalUserRole).(string); ok {
		requester.Role = v
	}
	if v, ok := c.Locals(middleware.LocalUserEmail).(string); ok {
		requester.Email = v
	}
	return requester
}
