// Package brandhdl - Handler quản trị brand.
package brandhdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/base/handler"
	branddto "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/brand/dto"
	brandsvc "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/brand/service"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/common"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/global"
)

// BrandHandler xử lý CRUD brand.
type BrandHandler struct {
	BrandService *brandsvc.BrandService
}

// NewBrandHandler tạo BrandHandler mới.
func NewBrandHandler() (*BrandHandler, error) {
	svc, err := brandsvc.NewBrandService()
	if err != nil {
		return nil, fmt.Errorf("tạo BrandService: %w", err)
	}
	return &BrandHandler{BrandService: svc}, nil
}

// HandleInsertOne xử lý POST /brands/insert-one
func (h *BrandHandler) HandleInsertOne(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input branddto.BrandCreateInput
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
		brand, err := h.BrandService.Create(c.Context(), &input)
		basehdl.HandleResponse(c, brand, err)
		return nil
	})
}

// HandleFind xử lý GET /brands/find. Query: active=true để lọc brand active.
func (h *BrandHandler) HandleFind(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		onlyActive := c.Query("active") == "true"
		brands, err := h.BrandService.Find(c.Context(), onlyActive)
		basehdl.HandleResponse(c, brands, err)
		return nil
	})
}

// HandleFindOne xử lý GET /brands/find-one. Query: id hoặc name.
func (h *BrandHandler) HandleFindOne(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		if idStr := c.Query("id"); idStr != "" {
			id, err := primitive.ObjectIDFromHex(idStr)
			if err != nil {
				basehdl.HandleResponse(c, nil, common.ErrInvalidInput)
				return nil
			}
			brand, err := h.BrandService.FindOneById(c.Context(), id)
			basehdl.HandleResponse(c, brand, err)
			return nil
		}
		if name := c.Query("name"); name != "" {
			brand, err := h.BrandService.FindOneByName(c.Context(), name)
			basehdl.HandleResponse(c, brand, err)
			return nil
		}
		basehdl.HandleResponse(c, nil, common.NewError(
			common.ErrCodeValidationInput, "Cần query id hoặc name", common.StatusBadRequest, nil,
		))
		return nil
	})
}

// HandleUpdateById xử lý PUT /brands/update-by-id/:id
func (h *BrandHandler) HandleUpdateById(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		id, err := primitive.ObjectIDFromHex(c.Params("id"))
		if err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		var input branddto.BrandUpdateInput
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
		brand, err := h.BrandService.UpdateById(c.Context(), id, &input)
		basehdl.HandleResponse(c, brand, err)
		return nil
	})
}

// HandleDeleteById xử lý DELETE /brands/delete-by-id/:id
func (h *BrandHandler) HandleDeleteById(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		id, err := primitive.ObjectIDFromHex(c.Params("id"))
		if err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		err = h.BrandService.DeleteById(c.Context(), id)
		basehdl.HandleResponse(c, fiber.Map{"deleted": err == nil}, err)
		return nil
	})
}
