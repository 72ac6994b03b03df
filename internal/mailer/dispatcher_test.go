package mailer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

type fakeSender struct {
	fail bool
	sent []Message
}

func (f *fakeSender) Send(ctx context.Context, msg Message) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcherDelivers(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, discardLogger(), 4)

	d.Enqueue(Message{To: "alice@example.com", Subject: "Welcome"})
	d.Close()

	sent, failed, dropped := d.Stats()
	if sent != 1 || failed != 0 || dropped != 0 {
		t.Fatalf("unexpected stats: sent=%d failed=%d dropped=%d", sent, failed, dropped)
	}
	if len(sender.sent) != 1 || sender.sent[0].To != "alice@example.com" {
		t.Fatalf("unexpected delivery: %+v", sender.sent)
	}
}

func TestDispatcherCountsFailures(t *testing.T) {
	d := NewDispatcher(&fakeSender{fail: true}, discardLogger(), 4)

	d.Enqueue(Message{To: "alice@example.com", Subject: "Welcome"})
	d.Close()

	sent, failed, _ := d.Stats()
	if sent != 0 || failed != 1 {
		t.Fatalf("unexpected stats: sent=%d failed=%d", sent, failed)
	}
}

func TestDispatcherMockModeWithoutSender(t *testing.T) {
	d := NewDispatcher(nil, discardLogger(), 4)

	d.Enqueue(Message{To: "alice@example.com", Subject: "Welcome"})
	d.Close()

	sent, failed, dropped := d.Stats()
	if sent != 1 || failed != 0 || dropped != 0 {
		t.Fatalf("unexpected stats: sent=%d failed=%d dropped=%d", sent, failed, dropped)
	}
}

func TestBookingDecisionHTMLEmbedsQRForAccepted(t *testing.T) {
	html, err := BookingDecisionHTML(DecisionData{
		Name:        "Alice",
		ServiceType: "inspection",
		Status:      "accepted",
		StatusTitle: "Accepted",
		BookingID:   "b-1",
		Date:        "2026-09-01",
		Accepted:    true,
	})
	if err != nil {
		t.Fatalf("BookingDecisionHTML: %v", err)
	}
	if !strings.Contains(html, "cid:qr_code") {
		t.Fatal("accepted email must reference the inline QR image")
	}

	html, err = BookingDecisionHTML(DecisionData{
		Name:        "Alice",
		ServiceType: "inspection",
		Status:      "declined",
		StatusTitle: "Declined",
		BookingID:   "b-1",
	})
	if err != nil {
		t.Fatalf("BookingDecisionHTML: %v", err)
	}
	if strings.Contains(html, "cid:qr_code") {
		t.Fatal("declined email must not reference a QR image")
	}
}
