package kirvano

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// countingMetrics records notification outcomes for assertions.
type countingMetrics struct {
	NoopMetrics
	mu            sync.Mutex
	notifications map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{notifications: make(map[string]int)}
}

func (m *countingMetrics) RecordNotification(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications[status]++
}

func (m *countingMetrics) count(status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifications[status]
}

func dispatchEvent(t *testing.T, eventType string) string {
	t.Helper()
	notifier := &recordingNotifier{}
	p := NewProcessor(notifier, nil, nil)

	p.Dispatch(context.Background(), 42, &Event{
		Event:         eventType,
		SaleID:        testSaleID,
		TotalPrice:    "R$ 97,00",
		PaymentMethod: "PIX",
	})

	sent := notifier.sent()
	if len(sent) != 1 {
		t.Fatalf("%s: expected 1 notification, got %d", eventType, len(sent))
	}
	return sent[0]
}

func TestDispatch_SaleApprovedTemplate(t *testing.T) {
	msg := dispatchEvent(t, EventSaleApproved)
	for _, want := range []string{"NOVA VENDA", "<code>42</code>", "R$ 97,00", "PIX", testSaleID, "Ativar manualmente"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Sale message missing %q: %q", want, msg)
		}
	}
}

func TestDispatch_RenewalTemplate(t *testing.T) {
	msg := dispatchEvent(t, EventSubscriptionRenewed)
	for _, want := range []string{"RENOVAÇÃO", "<code>42</code>", "R$ 97,00", testSaleID} {
		if !strings.Contains(msg, want) {
			t.Errorf("Renewal message missing %q: %q", want, msg)
		}
	}
}

func TestDispatch_CancellationTemplate(t *testing.T) {
	msg := dispatchEvent(t, EventSubscriptionCanceled)
	for _, want := range []string{"CANCELAMENTO", "<code>42</code>", testSaleID} {
		if !strings.Contains(msg, want) {
			t.Errorf("Cancellation message missing %q: %q", want, msg)
		}
	}
}

func TestDispatch_RefundTemplate(t *testing.T) {
	msg := dispatchEvent(t, EventRefundRequested)
	for _, want := range []string{"REEMBOLSO", "<code>42</code>", testSaleID, "Desativar usuário manualmente"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Refund message missing %q: %q", want, msg)
		}
	}
}

func TestDispatch_MissingFieldsRenderNA(t *testing.T) {
	notifier := &recordingNotifier{}
	p := NewProcessor(notifier, nil, nil)

	p.Dispatch(context.Background(), 42, &Event{Event: EventSaleApproved})

	sent := notifier.sent()
	if len(sent) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(sent))
	}
	if !strings.Contains(sent[0], "N/A") {
		t.Errorf("Absent fields should render as N/A: %q", sent[0])
	}
}

func TestDispatch_UnknownEventDropped(t *testing.T) {
	notifier := &recordingNotifier{}
	p := NewProcessor(notifier, nil, nil)

	p.Dispatch(context.Background(), 42, &Event{Event: "FOO_BAR"})

	if len(notifier.sent()) != 0 {
		t.Errorf("Unknown events must not notify, got %d messages", len(notifier.sent()))
	}
}

func TestNotify_MetricsOutcomes(t *testing.T) {
	t.Run("sent", func(t *testing.T) {
		metrics := newCountingMetrics()
		p := NewProcessor(&recordingNotifier{}, nil, metrics)
		p.notify(context.Background(), "hello")
		if metrics.count("sent") != 1 {
			t.Errorf("Expected 1 sent, got %d", metrics.count("sent"))
		}
	})

	t.Run("error", func(t *testing.T) {
		metrics := newCountingMetrics()
		p := NewProcessor(&recordingNotifier{err: errors.New("boom")}, nil, metrics)
		p.notify(context.Background(), "hello")
		if metrics.count("error") != 1 {
			t.Errorf("Expected 1 error, got %d", metrics.count("error"))
		}
	})

	t.Run("skipped when unconfigured", func(t *testing.T) {
		metrics := newCountingMetrics()
		p := NewProcessor(NoopNotifier{}, nil, metrics)
		p.notify(context.Background(), "hello")
		if metrics.count("skipped") != 1 {
			t.Errorf("Expected 1 skipped, got %d", metrics.count("skipped"))
		}
	})
}

// Delivery failures never block dispatch or bubble up.
func TestDispatch_NotifierFailureSwallowed(t *testing.T) {
	p := NewProcessor(&recordingNotifier{err: errors.New("telegram down")}, nil, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Dispatch(context.Background(), 42, &Event{Event: EventSaleApproved})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on notifier failure")
	}
}
