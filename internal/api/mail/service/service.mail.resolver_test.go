// Package mailsvc - Test cascade correlation: thứ tự ưu tiên các heuristic,
// thread linkage, cửa sổ 30 ngày của sender/recency.
package mailsvc

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	bookingmodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/booking/models"
	mailmodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/mail/models"
)

// fakeStore là ResolverStore trong bộ nhớ cho test cascade
type fakeStore struct {
	bookings []bookingmodels.Booking
	messages []mailmodels.EmailMessage
}

func (f *fakeStore) FindBookingByID(ctx context.Context, id primitive.ObjectID) (*bookingmodels.Booking, error) {
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			return &f.bookings[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindBookingByShortCode(ctx context.Context, code string) (*bookingmodels.Booking, error) {
	for i := range f.bookings {
		if f.bookings[i].ShortCode == code {
			return &f.bookings[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindNewestBookingByEmail(ctx context.Context, email string, since int64) (*bookingmodels.Booking, error) {
	var newest *bookingmodels.Booking
	for i := range f.bookings {
		b := &f.bookings[i]
		if b.CustomerEmail != email || b.CreatedAt < since {
			continue
		}
		if newest == nil || b.CreatedAt > newest.CreatedAt {
			newest = b
		}
	}
	return newest, nil
}

func (f *fakeStore) FindMessageByMessageID(ctx context.Context, messageID string) (*mailmodels.EmailMessage, error) {
	for i := range f.messages {
		if f.messages[i].MessageID == messageID {
			return &f.messages[i], nil
		}
	}
	return nil, nil
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func daysAgoMillis(days int) int64 {
	return time.Now().Add(-time.Duration(days) * 24 * time.Hour).UnixMilli()
}

func TestResolve_SubjectPattern_ShortCode(t *testing.T) {
	bookingID := primitive.NewObjectID()
	store := &fakeStore{bookings: []bookingmodels.Booking{
		{ID: bookingID, ShortCode: "A3K9P2", CreatedAt: nowMillis()},
	}}
	r := NewResolver(store)

	// Ví dụ chuẩn: khách reply với subject chứa #A3K9P2
	id, matchedBy := r.Resolve(context.Background(), &ResolveInput{
		From:    "khach@example.com",
		Subject: "Re: Xác nhận booking #A3K9P2",
		Body:    "Tôi muốn đổi lịch",
	})
	if id == nil {
		t.Fatal("Không resolve được booking từ subject chứa #A3K9P2")
	}
	if *id != bookingID {
		t.Errorf("Resolve sai booking: got %s, want %s", id.Hex(), bookingID.Hex())
	}
	if matchedBy != MatchedBySubjectRef {
		t.Errorf("matchedBy = %q, muốn %q", matchedBy, MatchedBySubjectRef)
	}
}

func TestResolve_SubjectPattern_LowercaseShortCode(t *testing.T) {
	bookingID := primitive.NewObjectID()
	store := &fakeStore{bookings: []bookingmodels.Booking{
		{ID: bookingID, ShortCode: "A3K9P2", CreatedAt: nowMillis()},
	}}
	r := NewResolver(store)

	id, _ := r.Resolve(context.Background(), &ResolveInput{
		From:    "khach@example.com",
		Subject: "booking a3k9p2 cần hỗ trợ",
	})
	if id == nil || *id != bookingID {
		t.Error("ShortCode viết thường trong subject phải vẫn match (pattern case-insensitive)")
	}
}

func TestResolve_SubjectPattern_HexObjectID(t *testing.T) {
	bookingID := primitive.NewObjectID()
	store := &fakeStore{bookings: []bookingmodels.Booking{
		{ID: bookingID, ShortCode: "ZZZZZZ", CreatedAt: nowMillis()},
	}}
	r := NewResolver(store)

	id, _ := r.Resolve(context.Background(), &ResolveInput{
		From:    "khach@example.com",
		Subject: "Booking: " + bookingID.Hex(),
	})
	if id == nil || *id != bookingID {
		t.Error("Hex ObjectID 24 ký tự trong subject phải match theo _id (không bị nhánh 6 ký tự nuốt prefix)")
	}
}

func TestResolve_ExplicitRef_WinsOverSubject(t *testing.T) {
	explicit := primitive.NewObjectID()
	other := primitive.NewObjectID()
	store := &fakeStore{bookings: []bookingmodels.Booking{
		{ID: explicit, ShortCode: "AAAAA1", CreatedAt: nowMillis()},
		{ID: other, ShortCode: "BBBBB2", CreatedAt: nowMillis()},
	}}
	r := NewResolver(store)

	// Subject trỏ booking khác nhưng tham chiếu tường minh phải thắng
	id, matchedBy := r.Resolve(context.Background(), &ResolveInput{
		ExplicitRef: explicit.Hex(),
		Subject:     "Re: booking #BBBBB2",
	})
	if id == nil || *id != explicit {
		t.Fatal("Tham chiếu tường minh phải thắng subject pattern")
	}
	if matchedBy != MatchedByExplicitRef {
		t.Errorf("matchedBy = %q, muốn %q", matchedBy, MatchedByExplicitRef)
	}
}

func TestResolve_ExplicitRef_InvalidFallsThrough(t *testing.T) {
	bookingID := primitive.NewObjectID()
	store := &fakeStore{bookings: []bookingmodels.Booking{
		{ID: bookingID, ShortCode: "CCCCC3", CreatedAt: nowMillis()},
	}}
	r := NewResolver(store)

	// ExplicitRef không tồn tại: bước 1 không match, subject pattern vẫn chạy
	id, matchedBy := r.Resolve(context.Background(), &ResolveInput{
		ExplicitRef: primitive.NewObjectID().Hex(),
		Subject:     "booking #CCCCC3",
	})
	if id == nil || *id != bookingID {
		t.Fatal("ExplicitRef sai phải rơi xuống heuristic tiếp theo")
	}
	if matchedBy != MatchedBySubjectRef {
		t.Errorf("matchedBy = %q, muốn %q", matchedBy, MatchedBySubjectRef)
	}
}

func TestResolve_ThreadLinkage(t *testing.T) {
	bookingID := primitive.NewObjectID()
	store := &fakeStore{
		bookings: []bookingmodels.Booking{
			{ID: bookingID, ShortCode: "DDDDD4", CreatedAt: nowMillis()},
		},
		messages: []mailmodels.EmailMessage{
			{MessageID: "<msg-1@mail>", BookingID: &bookingID},
		},
	}
	r := NewResolver(store)

	// Subject/body không có tham chiếu gì nhưng inReplyTo trỏ email đã link
	id, matchedBy := r.Resolve(context.Background(), &ResolveInput{
		From:      "khach@example.com",
		Subject:   "Re: thông tin lịch hẹn",
		InReplyTo: "<msg-1@mail>",
	})
	if id == nil || *id != bookingID {
		t.Fatal("Thread linkage phải kế thừa booking từ email cha")
	}
	if matchedBy != MatchedByThreadLinkage {
		t.Errorf("matchedBy = %q, muốn %q", matchedBy, MatchedByThreadLinkage)
	}
}

func TestResolve_ThreadLinkage_ParentUnlinked(t *testing.T) {
	store := &fakeStore{
		messages: []mailmodels.EmailMessage{
			{MessageID: "<msg-2@mail>", BookingID: nil},
		},
	}
	r := NewResolver(store)

	id, _ := r.Resolve(context.Background(), &ResolveInput{
		From:      "khach@example.com",
		Subject:   "Re: hỏi thông tin",
		InReplyTo: "<msg-2@mail>",
	})
	if id != nil {
		t.Error("Email cha chưa link booking thì thread linkage không được match")
	}
}

func TestResolve_BodyPattern(t *testing.T) {
	bookingID := primitive.NewObjectID()
	store := &fakeStore{bookings: []bookingmodels.Booking{
		{ID: bookingID, ShortCode: "EEEEE5", CreatedAt: nowMillis()},
	}}
	r := NewResolver(store)

	id, matchedBy := r.Resolve(context.Background(), &ResolveInput{
		From:    "khach@example.com",
		Subject: "Cần hỗ trợ",
		Body:    "Mã của tôi là booking #EEEEE5, vui lòng kiểm tra giúp.",
	})
	if id == nil || *id != bookingID {
		t.Fatal("Tham chiếu trong body phải match khi subject không có")
	}
	if matchedBy != MatchedByBodyRef {
		t.Errorf("matchedBy = %q, muốn %q", matchedBy, MatchedByBodyRef)
	}
}

func TestResolve_SenderRecency_Within30Days(t *testing.T) {
	bookingID := primitive.NewObjectID()
	store := &fakeStore{bookings: []bookingmodels.Booking{
		{ID: bookingID, ShortCode: "FFFFF6", CustomerEmail: "khach@example.com", CreatedAt: daysAgoMillis(10)},
	}}
	r := NewResolver(store)

	// Không tham chiếu gì — booking 10 ngày tuổi của cùng người gửi vẫn trong cửa sổ
	id, matchedBy := r.Resolve(context.Background(), &ResolveInput{
		From:    "khach@example.com",
		Subject: "Khi nào kỹ thuật viên đến?",
	})
	if id == nil || *id != bookingID {
		t.Fatal("Booking 10 ngày tuổi của người gửi phải match qua sender/recency")
	}
	if matchedBy != MatchedBySenderRecency {
		t.Errorf("matchedBy = %q, muốn %q", matchedBy, MatchedBySenderRecency)
	}
}

func TestResolve_SenderRecency_Past30Days(t *testing.T) {
	store := &fakeStore{bookings: []bookingmodels.Booking{
		{ID: primitive.NewObjectID(), ShortCode: "GGGGG7", CustomerEmail: "khach@example.com", CreatedAt: daysAgoMillis(40)},
	}}
	r := NewResolver(store)

	id, matchedBy := r.Resolve(context.Background(), &ResolveInput{
		From:    "khach@example.com",
		Subject: "Khi nào kỹ thuật viên đến?",
	})
	if id != nil {
		t.Errorf("Booking 40 ngày tuổi nằm ngoài cửa sổ 30 ngày, không được match (matchedBy=%q)", matchedBy)
	}
}

func TestResolve_SenderRecency_PicksNewest(t *testing.T) {
	older := primitive.NewObjectID()
	newer := primitive.NewObjectID()
	store := &fakeStore{bookings: []bookingmodels.Booking{
		{ID: older, CustomerEmail: "khach@example.com", CreatedAt: daysAgoMillis(20)},
		{ID: newer, CustomerEmail: "khach@example.com", CreatedAt: daysAgoMillis(2)},
	}}
	r := NewResolver(store)

	id, _ := r.Resolve(context.Background(), &ResolveInput{
		From:    "khach@example.com",
		Subject: "Hỏi lịch",
	})
	if id == nil || *id != newer {
		t.Error("Sender/recency phải chọn booking mới nhất trong cửa sổ")
	}
}

func TestResolve_Unresolved(t *testing.T) {
	store := &fakeStore{}
	r := NewResolver(store)

	id, matchedBy := r.Resolve(context.Background(), &ResolveInput{
		From:    "lạ@example.com",
		Subject: "Chào shop",
		Body:    "Cho hỏi giá lắp máy lạnh",
	})
	if id != nil || matchedBy != "" {
		t.Errorf("Email không có manh mối nào phải trả về (nil, \"\"), got (%v, %q)", id, matchedBy)
	}
}

func TestClassify(t *testing.T) {
	bookingID := primitive.NewObjectID()

	if got := classify(&bookingID, "nội dung reply", false); got != mailmodels.KindReply {
		t.Errorf("Đã link + body khác rỗng phải là reply, got %q", got)
	}
	if got := classify(&bookingID, "", false); got != mailmodels.KindIncoming {
		t.Errorf("Đã link nhưng body rỗng phải là incoming, got %q", got)
	}
	if got := classify(nil, "nội dung", false); got != mailmodels.KindIncoming {
		t.Errorf("Chưa link phải là incoming, got %q", got)
	}
	if got := classify(&bookingID, "nội dung", true); got != mailmodels.KindOutgoing {
		t.Errorf("replySent=true phải là outgoing, got %q", got)
	}
}

func TestResolve_SubjectRef_OnlyFirstTokenChecked(t *testing.T) {
	bookingID := primitive.NewObjectID()
	store := &fakeStore{bookings: []bookingmodels.Booking{
		{ID: bookingID, ShortCode: "GGGGG7", CreatedAt: nowMillis()},
	}}
	r := NewResolver(store)

	// Token đầu #ZZZZZ9 không tồn tại trong store → bước subject không match,
	// dù token sau #GGGGG7 hợp lệ. Không dò tiếp các token sau token đầu.
	id, matchedBy := r.Resolve(context.Background(), &ResolveInput{
		From:    "nguoila@example.com",
		Subject: "Re: booking #ZZZZZ9 (trước đây là #GGGGG7)",
	})
	if id != nil {
		t.Error("Token đầu stale thì bước subject không được match token sau")
	}
	if matchedBy != "" {
		t.Errorf("matchedBy = %q, muốn rỗng", matchedBy)
	}
}
