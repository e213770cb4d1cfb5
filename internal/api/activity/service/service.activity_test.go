// Package activitysvc - Test hành vi fire-and-forget của audit log:
// sink ghi hỏng không được lan ra operation gốc.
package activitysvc

import (
	"context"
	"testing"

	activitymodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/activity/models"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/common"
)

func TestLog_FailingSinkDoesNotPropagate(t *testing.T) {
	calls := 0
	svc := &ActivityService{
		insert: func(ctx context.Context, event activitymodels.ActivityEvent) error {
			calls++
			return common.ErrConnection
		},
	}

	// Log không có giá trị trả về và không được panic khi sink fail —
	// trở về bình thường nghĩa là lỗi đã được nuốt tại chỗ
	svc.Log(context.Background(), activitymodels.ActivityEvent{
		EventType: activitymodels.EventBookingCreated,
		Message:   "Booking mới",
	})

	if calls != 1 {
		t.Errorf("Sink phải được gọi đúng 1 lần, got %d", calls)
	}
}

func TestLog_DefaultsSeverityAndCreatedAt(t *testing.T) {
	var got activitymodels.ActivityEvent
	svc := &ActivityService{
		insert: func(ctx context.Context, event activitymodels.ActivityEvent) error {
			got = event
			return nil
		},
	}

	svc.Log(context.Background(), activitymodels.ActivityEvent{
		EventType: activitymodels.EventEmailSent,
		Message:   "Đã gửi email",
	})

	if got.Severity != activitymodels.SeverityInfo {
		t.Errorf("Severity trống phải default về info, got %q", got.Severity)
	}
	if got.CreatedAt == 0 {
		t.Error("CreatedAt trống phải được gán thời điểm hiện tại")
	}
}
