// Package activitysvc - service cho audit trail (activity_events).
package activitysvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	activitymodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/activity/models"
	basesvc "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/base/service"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/common"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/global"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/logger"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/utility"
)

// ActivityService là service cho activity events.
// Append-only: không expose update/delete.
type ActivityService struct {
	base *basesvc.BaseServiceMongoImpl[activitymodels.ActivityEvent]

	// insert là điểm ghi thật sự, tách riêng để test được hành vi
	// nuốt lỗi của Log mà không cần Mongo
	insert func(ctx context.Context, event activitymodels.ActivityEvent) error
}

// NewActivityService tạo mới ActivityService
func NewActivityService() (*ActivityService, error) {
	col, exist := global.RegistryCollections.Get(global.ColNames.ActivityEvents)
	if !exist {
		return nil, fmt.Errorf("failed to get activity_events collection: %v", common.ErrNotFound)
	}

	base := basesvc.NewBaseServiceMongo[activitymodels.ActivityEvent](col)
	return &ActivityService{
		base: base,
		insert: func(ctx context.Context, event activitymodels.ActivityEvent) error {
			_, err := base.InsertOne(ctx, event)
			return err
		},
	}, nil
}

// Log ghi một activity event. Fire-and-forget: mọi lỗi ghi được bắt tại đây,
// log ra audit logger và KHÔNG trả về — operation gốc không bao giờ fail,
// block hay rollback vì một lần ghi audit hỏng.
func (s *ActivityService) Log(ctx context.Context, event activitymodels.ActivityEvent) {
	if event.Severity == "" {
		event.Severity = activitymodels.SeverityInfo
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = utility.CurrentTimeInMilli()
	}

	if err := s.insert(ctx, event); err != nil {
		logger.GetAuditLogger().WithError(err).WithFields(map[string]interface{}{
			"eventType": event.EventType,
			"message":   event.Message,
		}).Warn("Không ghi được activity event")
		return
	}

	logger.GetAuditLogger().WithFields(map[string]interface{}{
		"eventType": event.EventType,
		"severity":  event.Severity,
	}).Debug(event.Message)
}

// FindRecent trả về các event mới nhất (mặc định 100, giới hạn 500)
func (s *ActivityService) FindRecent(ctx context.Context, limit int64) ([]activitymodels.ActivityEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit)
	return s.base.Find(ctx, bson.D{}, opts)
}

// FindByBooking trả về các event của một booking, mới nhất trước
func (s *ActivityService) FindByBooking(ctx context.Context, bookingID primitive.ObjectID) ([]activitymodels.ActivityEvent, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	return s.base.Find(ctx, bson.M{"bookingId": bookingID}, opts)
}
