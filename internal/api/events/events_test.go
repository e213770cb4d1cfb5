// Package events - Test emit fire-and-forget: mọi handler đều nhận,
// handler panic không ảnh hưởng handler khác.
package events

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/logger"
)

func TestEmit_AllHandlersReceive(t *testing.T) {
	Reset()
	defer Reset()

	var wg sync.WaitGroup
	wg.Add(2)
	var mu sync.Mutex
	var received []string

	for _, name := range []string{"h1", "h2"} {
		n := name
		On(func(ctx context.Context, e Event) {
			mu.Lock()
			received = append(received, n+":"+e.Name)
			mu.Unlock()
			wg.Done()
		})
	}

	bookingID := primitive.NewObjectID()
	Emit(context.Background(), Event{Name: EventBookingCreated, BookingID: bookingID})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Handler không nhận đủ event, mới nhận: %v", received)
	}

	if len(received) != 2 {
		t.Errorf("Cả 2 handler phải nhận event, got %v", received)
	}
}

func TestEmit_PanicHandlerDoesNotBlockOthers(t *testing.T) {
	Reset()
	defer Reset()

	got := make(chan string, 1)
	On(func(ctx context.Context, e Event) {
		panic("handler hỏng")
	})
	On(func(ctx context.Context, e Event) {
		got <- e.Name
	})

	Emit(context.Background(), Event{Name: EventEmailReply})

	select {
	case name := <-got:
		if name != EventEmailReply {
			t.Errorf("Handler nhận sai event: %q", name)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Handler lành phải vẫn nhận event khi handler khác panic")
	}
}

func TestEmit_NoHandlers(t *testing.T) {
	Reset()
	// Emit không handler không được panic hay block
	Emit(context.Background(), Event{Name: EventBookingUpdated})
}

// syncBuffer là io.Writer an toàn cho goroutine, dùng bắt output logger trong test
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestEmit_PanicValueIsLogged(t *testing.T) {
	Reset()
	defer Reset()

	appLog := logger.GetAppLogger()
	var out syncBuffer
	prev := appLog.Out
	appLog.SetOutput(&out)
	defer appLog.SetOutput(prev)

	On(func(ctx context.Context, e Event) {
		panic("bể ống nước")
	})
	Emit(context.Background(), Event{Name: EventBookingCreated})

	// Giá trị panic phải xuất hiện trong app log, không bị nuốt lặng lẽ
	deadline := time.After(2 * time.Second)
	for !strings.Contains(out.String(), "bể ống nước") {
		select {
		case <-deadline:
			t.Fatal("Giá trị panic của handler phải được log ra app logger")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
