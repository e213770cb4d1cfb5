// Package mailsvc - service cho domain mail: correlation resolver và lưu email.
package mailsvc

import (
	"context"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	bookingmodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/booking/models"
	mailmodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/mail/models"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/logger"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/utility"
)

// Tên heuristic, lưu vào EmailMessage.MatchedBy để chẩn đoán
const (
	MatchedByExplicitRef   = "explicit_ref"
	MatchedByThreadLinkage = "thread_linkage"
	MatchedBySubjectRef    = "subject_pattern"
	MatchedByBodyRef       = "body_pattern"
	MatchedBySenderRecency = "sender_recency"
)

// senderRecencyWindowMillis là cửa sổ 30 ngày cho heuristic sender/recency
const senderRecencyWindowMillis = int64(30 * 24 * 60 * 60 * 1000)

// bookingRefPattern bắt tham chiếu booking trong subject/body: "#A3K9P2",
// "booking A3K9P2", "Booking: #abc...". Capture là shortCode 6 ký tự hoặc
// hex ObjectID 24 ký tự; nhánh 24 ký tự đặt trước để không bị nhánh 6 ký tự
// nuốt mất prefix.
var bookingRefPattern = regexp.MustCompile(`(?i)(?:#|booking[\s:#]*)([a-f0-9]{24}|[A-Z0-9]{6})`)

// ResolveInput là dữ liệu đầu vào của cascade correlation
type ResolveInput struct {
	ExplicitRef string // bookingId tường minh từ payload (hex ObjectID hoặc shortCode)
	From        string
	Subject     string
	Body        string
	InReplyTo   string
}

// ResolverStore là phần truy vấn mà resolver cần — tách interface để test
// cascade bằng store giả, không cần MongoDB.
type ResolverStore interface {
	FindBookingByID(ctx context.Context, id primitive.ObjectID) (*bookingmodels.Booking, error)
	FindBookingByShortCode(ctx context.Context, code string) (*bookingmodels.Booking, error)
	FindNewestBookingByEmail(ctx context.Context, email string, since int64) (*bookingmodels.Booking, error)
	FindMessageByMessageID(ctx context.Context, messageID string) (*mailmodels.EmailMessage, error)
}

// heuristicFunc là một bước trong cascade. Trả về nil nghĩa là không match;
// lỗi truy vấn được nuốt ở Resolve (log rồi đi tiếp bước sau).
type heuristicFunc func(ctx context.Context, store ResolverStore, in *ResolveInput) (*primitive.ObjectID, error)

type heuristic struct {
	name string
	fn   heuristicFunc
}

// Resolver chạy cascade correlation theo thứ tự ưu tiên cố định,
// bước nào match trước thì thắng.
type Resolver struct {
	store      ResolverStore
	heuristics []heuristic
}

// NewResolver tạo mới Resolver với cascade mặc định
func NewResolver(store ResolverStore) *Resolver {
	return &Resolver{
		store: store,
		heuristics: []heuristic{
			{MatchedByExplicitRef, resolveExplicitRef},
			{MatchedByThreadLinkage, resolveThreadLinkage},
			{MatchedBySubjectRef, resolveSubjectRef},
			{MatchedByBodyRef, resolveBodyRef},
			{MatchedBySenderRecency, resolveSenderRecency},
		},
	}
}

// Resolve chạy cascade, trả về booking đã match và tên heuristic.
// Không match bước nào → (nil, ""). Lỗi truy vấn của từng bước được
// log và coi như không match — correlation là best-effort.
func (r *Resolver) Resolve(ctx context.Context, in *ResolveInput) (*primitive.ObjectID, string) {
	for _, h := range r.heuristics {
		id, err := h.fn(ctx, r.store, in)
		if err != nil {
			logger.GetAppLogger().WithError(err).Warnf("Heuristic %s lỗi truy vấn, bỏ qua", h.name)
			continue
		}
		if id != nil {
			return id, h.name
		}
	}
	return nil, ""
}

// resolveExplicitRef xác thực bookingId tường minh trong payload.
// Tham chiếu tường minh nhưng không tồn tại trong store thì không match —
// KHÔNG fallback coi như shortCode sai là subject pattern.
func resolveExplicitRef(ctx context.Context, store ResolverStore, in *ResolveInput) (*primitive.ObjectID, error) {
	if in.ExplicitRef == "" {
		return nil, nil
	}
	return lookupRef(ctx, store, in.ExplicitRef)
}

// resolveThreadLinkage kế thừa booking từ email đã lưu có
// messageId == inReplyTo của email đang xử lý
func resolveThreadLinkage(ctx context.Context, store ResolverStore, in *ResolveInput) (*primitive.ObjectID, error) {
	if in.InReplyTo == "" {
		return nil, nil
	}
	parent, err := store.FindMessageByMessageID(ctx, in.InReplyTo)
	if err != nil {
		return nil, err
	}
	if parent == nil || parent.BookingID == nil {
		return nil, nil
	}
	return parent.BookingID, nil
}

// resolveSubjectRef tìm tham chiếu booking trong subject
func resolveSubjectRef(ctx context.Context, store ResolverStore, in *ResolveInput) (*primitive.ObjectID, error) {
	return resolvePatternIn(ctx, store, in.Subject)
}

// resolveBodyRef tìm tham chiếu booking trong body
func resolveBodyRef(ctx context.Context, store ResolverStore, in *ResolveInput) (*primitive.ObjectID, error) {
	return resolvePatternIn(ctx, store, in.Body)
}

// resolvePatternIn lấy tham chiếu booking ĐẦU TIÊN theo bookingRefPattern
// và xác thực với store. Chỉ capture đầu tiên được xét: token đầu không
// xác thực được thì cả bước này không match — không dò tiếp token sau.
func resolvePatternIn(ctx context.Context, store ResolverStore, text string) (*primitive.ObjectID, error) {
	if text == "" {
		return nil, nil
	}
	m := bookingRefPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, nil
	}
	return lookupRef(ctx, store, m[1])
}

// resolveSenderRecency: booking mới nhất có customerEmail trùng khớp chính xác
// với người gửi, tạo trong vòng 30 ngày gần đây
func resolveSenderRecency(ctx context.Context, store ResolverStore, in *ResolveInput) (*primitive.ObjectID, error) {
	if in.From == "" {
		return nil, nil
	}
	since := utility.CurrentTimeInMilli() - senderRecencyWindowMillis
	booking, err := store.FindNewestBookingByEmail(ctx, in.From, since)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, nil
	}
	return &booking.ID, nil
}

// lookupRef xác thực một tham chiếu thô với store: hex 24 ký tự tra theo _id,
// 6 ký tự chữ-số tra theo shortCode (không phân biệt hoa thường — shortCode
// lưu dạng uppercase)
func lookupRef(ctx context.Context, store ResolverStore, ref string) (*primitive.ObjectID, error) {
	ref = strings.TrimSpace(ref)
	if oid, err := primitive.ObjectIDFromHex(ref); err == nil {
		booking, err := store.FindBookingByID(ctx, oid)
		if err != nil {
			return nil, err
		}
		if booking == nil {
			return nil, nil
		}
		return &booking.ID, nil
	}
	if len(ref) == 6 {
		booking, err := store.FindBookingByShortCode(ctx, strings.ToUpper(ref))
		if err != nil {
			return nil, err
		}
		if booking == nil {
			return nil, nil
		}
		return &booking.ID, nil
	}
	return nil, nil
}
