package kirvano

import (
	"context"
	"fmt"
	"time"
)

// Processor routes classified webhook events to their handling routines.
// Every routine builds an HTML summary for the admin channel; none of them
// touches persisted state, so activation remains a manual follow-up.
type Processor struct {
	notifier Notifier
	logger   Logger
	metrics  Metrics
}

// NewProcessor creates a Processor. Nil dependencies are replaced with
// no-op implementations.
func NewProcessor(notifier Notifier, logger Logger, metrics Metrics) *Processor {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	if logger == nil {
		logger = &NoopLogger{}
	}
	if metrics == nil {
		metrics = &NoopMetrics{}
	}
	return &Processor{notifier: notifier, logger: logger, metrics: metrics}
}

// Dispatch invokes the handling routine matching ev's event type. The match
// is exact and case-sensitive. Unrecognized types are logged and dropped;
// that is not an error condition for the caller.
func (p *Processor) Dispatch(ctx context.Context, userID int64, ev *Event) {
	switch ev.Event {
	case EventSaleApproved:
		p.handleSaleApproved(ctx, userID, ev)
	case EventSubscriptionCreated:
		p.logger.Info("subscription created", Field{"user_id", userID})
		// A new subscription is notified exactly like a direct sale.
		p.handleSaleApproved(ctx, userID, ev)
	case EventSubscriptionRenewed:
		p.handleSubscriptionRenewed(ctx, userID, ev)
	case EventSubscriptionCanceled:
		p.handleSubscriptionCanceled(ctx, userID, ev)
	case EventRefundRequested:
		p.handleRefundRequested(ctx, userID, ev)
	default:
		p.logger.Warn("unknown event type", Field{"event", ev.Kind()})
	}
}

func (p *Processor) handleSaleApproved(ctx context.Context, userID int64, ev *Event) {
	p.logger.Info("sale approved", Field{"user_id", userID}, Field{"sale_id", ev.SaleID})

	msg := fmt.Sprintf(
		"✅ <b>NOVA VENDA!</b>\n\n"+
			"👤 User ID: <code>%d</code>\n"+
			"💰 Valor: %s\n"+
			"💳 Método: %s\n"+
			"🆔 Sale ID: %s\n\n"+
			"⚠️ <b>ATENÇÃO:</b> Ativar manualmente até integrar com bot!",
		userID, orNA(ev.TotalPrice), orNA(ev.PaymentMethod), orNA(ev.SaleID))

	p.notify(ctx, msg)
}

func (p *Processor) handleSubscriptionRenewed(ctx context.Context, userID int64, ev *Event) {
	p.logger.Info("subscription renewed", Field{"user_id", userID}, Field{"sale_id", ev.SaleID})

	msg := fmt.Sprintf(
		"🔄 <b>RENOVAÇÃO</b>\n\n"+
			"👤 User ID: <code>%d</code>\n"+
			"💰 Valor: %s\n"+
			"🆔 Sale ID: %s",
		userID, orNA(ev.TotalPrice), orNA(ev.SaleID))

	p.notify(ctx, msg)
}

func (p *Processor) handleSubscriptionCanceled(ctx context.Context, userID int64, ev *Event) {
	p.logger.Info("subscription canceled", Field{"user_id", userID}, Field{"sale_id", ev.SaleID})

	msg := fmt.Sprintf(
		"❌ <b>CANCELAMENTO</b>\n\n"+
			"👤 User ID: <code>%d</code>\n"+
			"🆔 Sale ID: %s",
		userID, orNA(ev.SaleID))

	p.notify(ctx, msg)
}

func (p *Processor) handleRefundRequested(ctx context.Context, userID int64, ev *Event) {
	p.logger.Info("refund requested", Field{"user_id", userID}, Field{"sale_id", ev.SaleID})

	msg := fmt.Sprintf(
		"💸 <b>REEMBOLSO</b>\n\n"+
			"👤 User ID: <code>%d</code>\n"+
			"🆔 Sale ID: %s\n\n"+
			"⚠️ Desativar usuário manualmente!",
		userID, orNA(ev.SaleID))

	p.notify(ctx, msg)
}

// notify delivers one message to the admin channel, best-effort. Delivery
// failures are logged and recorded but never propagate.
func (p *Processor) notify(ctx context.Context, text string) {
	if !p.notifier.Configured() {
		p.metrics.RecordNotification("skipped")
		return
	}

	start := time.Now()
	if err := p.notifier.Notify(ctx, text); err != nil {
		p.logger.Error("admin notification failed", Field{"error", err})
		p.metrics.RecordNotification("error")
		return
	}
	p.metrics.RecordNotification("sent")
	p.metrics.RecordNotificationDuration(time.Since(start))
}
