// Package events cung cấp cơ chế realtime event trung tâm cho booking và email reply.
// Emit là fire-and-forget, at-most-once: mỗi handler chạy trong goroutine riêng,
// không có acknowledgement hay retry; panic của handler được recover để không
// ảnh hưởng handler khác hay request đang xử lý.
package events

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/logger"
)

// Tên các event phát ra cho các listener đang kết nối (dashboard, mobile client).
const (
	EventBookingCreated = "booking:created"
	EventBookingUpdated = "booking:updated"
	EventEmailReply     = "email:reply"
)

// Event mô tả một sự kiện realtime.
// BookingID là booking liên quan (NilObjectID nếu không có).
type Event struct {
	Name      string
	BookingID primitive.ObjectID
	Payload   interface{}
}

// Handler xử lý một event.
type Handler func(ctx context.Context, e Event)

var (
	handlers   []Handler
	handlersMu sync.RWMutex
)

// On đăng ký handler nhận tất cả event. Gọi khi init (ví dụ từ delivery gateway
// của dashboard). Handler tự filter theo e.Name nếu chỉ quan tâm một loại.
func On(h Handler) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers = append(handlers, h)
}

// Emit phát sự kiện đến mọi handler đã đăng ký.
// Mỗi handler chạy trong goroutine riêng, panic được recover.
func Emit(ctx context.Context, e Event) {
	handlersMu.RLock()
	list := make([]Handler, len(handlers))
	copy(list, handlers)
	handlersMu.RUnlock()

	for _, h := range list {
		go func(fn Handler) {
			defer func() {
				if r := recover(); r != nil {
					logger.GetAppLogger().Errorf("Handler event %s panic: %v", e.Name, r)
				}
			}()
			fn(ctx, e)
		}(h)
	}
}

// Reset xóa toàn bộ handler đã đăng ký. Chỉ dùng trong test.
func Reset() {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers = nil
}
