// Package brandsvc - service cho domain brand.
package brandsvc

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/base/service"
	branddto "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/brand/dto"
	brandmodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/brand/models"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/common"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/global"
)

// BrandService là service CRUD cho brands.
// Mọi đường ghi đều đi qua normalizeAndValidate để giữ bất biến:
// kênh đã chọn luôn có địa chỉ tương ứng, NotifyMode luôn sync với
// PreferredChannels.
type BrandService struct {
	base *basesvc.BaseServiceMongoImpl[brandmodels.Brand]
}

// NewBrandService tạo mới BrandService
func NewBrandService() (*BrandService, error) {
	col, exist := global.RegistryCollections.Get(global.ColNames.Brands)
	if !exist {
		return nil, fmt.Errorf("failed to get brands collection: %v", common.ErrNotFound)
	}
	return &BrandService{
		base: basesvc.NewBaseServiceMongo[brandmodels.Brand](col),
	}, nil
}

// Create tạo brand mới. Tên trùng → ErrDuplicate (unique index).
func (s *BrandService) Create(ctx context.Context, input *branddto.BrandCreateInput) (*brandmodels.Brand, error) {
	brand := brandmodels.Brand{
		Name:              input.Name,
		WhatsAppNumber:    input.WhatsAppNumber,
		Email:             input.Email,
		PreferredChannels: input.PreferredChannels,
		NotifyMode:        input.NotifyMode,
		IsActive:          true,
	}
	if input.IsActive != nil {
		brand.IsActive = *input.IsActive
	}

	if err := normalizeAndValidate(&brand); err != nil {
		return nil, err
	}

	created, err := s.base.InsertOne(ctx, brand)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return &created, nil
}

// UpdateById cập nhật brand theo _id. Field nil trong input giữ nguyên giá trị cũ.
func (s *BrandService) UpdateById(ctx context.Context, id primitive.ObjectID, input *branddto.BrandUpdateInput) (*brandmodels.Brand, error) {
	brand, err := s.base.FindOneById(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		brand.Name = *input.Name
	}
	if input.WhatsAppNumber != nil {
		brand.WhatsAppNumber = *input.WhatsAppNumber
	}
	if input.Email != nil {
		brand.Email = *input.Email
	}
	if input.PreferredChannels != nil {
		brand.PreferredChannels = input.PreferredChannels
	}
	if input.NotifyMode != nil {
		brand.NotifyMode = *input.NotifyMode
	}
	if input.IsActive != nil {
		brand.IsActive = *input.IsActive
	}

	if err := normalizeAndValidate(&brand); err != nil {
		return nil, err
	}

	updated, err := s.base.UpdateById(ctx, id, brand)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return &updated, nil
}

// Find trả về danh sách brand, lọc tùy chọn theo isActive
func (s *BrandService) Find(ctx context.Context, onlyActive bool) ([]brandmodels.Brand, error) {
	filter := bson.M{}
	if onlyActive {
		filter["isActive"] = true
	}
	opts := options.Find().SetSort(bson.M{"name": 1})
	return s.base.Find(ctx, filter, opts)
}

// FindOneById tra brand theo _id
func (s *BrandService) FindOneById(ctx context.Context, id primitive.ObjectID) (brandmodels.Brand, error) {
	return s.base.FindOneById(ctx, id)
}

// FindOneByName tra brand theo tên (match exact)
func (s *BrandService) FindOneByName(ctx context.Context, name string) (brandmodels.Brand, error) {
	return s.base.FindOne(ctx, bson.M{"name": name}, nil)
}

// FindActiveByName tra brand active theo tên exact, dùng cho dispatcher.
// Không thấy hoặc inactive → (nil, nil): đây là dữ liệu thiếu, không phải lỗi.
func (s *BrandService) FindActiveByName(ctx context.Context, name string) (*brandmodels.Brand, error) {
	brand, err := s.base.FindOne(ctx, bson.M{"name": name, "isActive": true}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &brand, nil
}

// DeleteById xóa brand theo _id
func (s *BrandService) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	return s.base.DeleteById(ctx, id)
}

// normalizeAndValidate chuẩn hóa cặp kênh và kiểm tra bất biến địa chỉ:
// mỗi kênh được chọn phải có địa chỉ tương ứng đã điền
func normalizeAndValidate(brand *brandmodels.Brand) error {
	brand.PreferredChannels, brand.NotifyMode = brandmodels.NormalizeChannels(brand.PreferredChannels, brand.NotifyMode)

	for _, ch := range brand.PreferredChannels {
		if brand.AddressFor(ch) == "" {
			return common.NewError(
				common.ErrCodeValidationInput,
				fmt.Sprintf("Kênh %s được chọn nhưng chưa có địa chỉ tương ứng", ch),
				common.StatusBadRequest,
				nil,
			)
		}
	}
	return nil
}
