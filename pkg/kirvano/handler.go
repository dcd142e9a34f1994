// Package kirvano implements an HTTP receiver for Kirvano payment webhooks.
// It validates an optional shared-secret token, resolves the Telegram user
// behind each event and forwards a formatted summary to the admin channel.
// The receiver is fully stateless between requests.
package kirvano

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/radarpolitico/kirvanohook/pkg/kirvano/internal"
)

const (
	serviceName    = "Radar Político - Webhook Kirvano"
	serviceVersion = "1.0.0"

	// headerToken is where Kirvano sends the shared secret when it is not
	// in the body. The body field takes precedence.
	headerToken = "X-Kirvano-Token"
)

// Handler serves the webhook receiver's HTTP surface.
type Handler struct {
	config      Config
	logger      Logger
	metrics     Metrics
	processor   *Processor
	webhook     http.Handler
	webhookTest http.Handler
}

// NewHandler creates a Handler from the given configuration.
func NewHandler(config Config) *Handler {
	cfg := config.withDefaults()

	h := &Handler{
		config:    cfg,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		processor: NewProcessor(cfg.Notifier, cfg.Logger, cfg.Metrics),
	}

	limiter := internal.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	h.webhook = limiter.Middleware(http.HandlerFunc(h.handleWebhook))
	h.webhookTest = limiter.Middleware(http.HandlerFunc(h.handleWebhookTest))

	return h
}

// Routes returns the full HTTP surface mounted on a chi router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Method(http.MethodPost, "/webhook/kirvano", h.WebhookHandler())
	r.Method(http.MethodPost, "/webhook/kirvano/test", h.WebhookTestHandler())
	return r
}

// WebhookHandler returns the rate-limited handler for the main intake route.
func (h *Handler) WebhookHandler() http.Handler { return h.webhook }

// WebhookTestHandler returns the rate-limited handler for the payload
// inspection route.
func (h *Handler) WebhookTestHandler() http.Handler { return h.webhookTest }

// Root reports service identity and whether a shared secret is configured.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, map[string]interface{}{
		"status":     "online",
		"service":    serviceName,
		"version":    serviceVersion,
		"configured": h.config.Token != "",
	})
}

// Health reports service liveness and configuration status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"env_check": map[string]string{
			"kirvano_token": checkMark(h.config.Token != ""),
			"bot_token":     checkMark(h.config.Notifier.Configured()),
		},
	})
}

// handleWebhook is the main event intake. Kirvano always receives a
// determinate status: 401 for a bad token, 200 for everything it should not
// retry, 500 only for genuinely unexpected failures.
func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	setSecurityHeaders(w)

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := internal.ReadBodyStrict(w, r, h.config.MaxBodyBytes)
	if err != nil {
		if errors.Is(err, internal.ErrPayloadTooLarge) {
			h.metrics.RecordWebhookError("payload_too_large")
			h.respond(w, http.StatusRequestEntityTooLarge, errorBody("payload too large"))
			return
		}
		h.fail(ctx, w, err)
		return
	}

	ev, err := ParseEvent(body)
	if err != nil {
		h.metrics.RecordWebhookError("invalid_payload")
		h.fail(ctx, w, err)
		return
	}

	h.logger.Info("webhook received",
		Field{"event", ev.Kind()},
		Field{"sale_id", orNA(ev.SaleID)},
		Field{"checkout_id", orNA(ev.CheckoutID)})

	token := ev.Token
	if token == "" {
		token = r.Header.Get(headerToken)
	}
	switch {
	case h.config.Token != "" && token != "":
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.config.Token)) != 1 {
			h.logger.Warn("invalid webhook token", Field{"event", ev.Kind()})
			h.metrics.RecordWebhookError("auth_failed")
			h.respond(w, http.StatusUnauthorized, errorBody("Token inválido"))
			return
		}
	case h.config.Token != "":
		// Secret configured but no token supplied: validation is skipped.
		// Known gap, kept to match the deployed Kirvano configuration.
		h.logger.Warn("webhook accepted without token", Field{"event", ev.Kind()})
	}

	userID, err := ExtractUserID(ev)
	if err != nil {
		if errors.Is(err, ErrUserIDNotFound) {
			h.logger.Error("telegram user id not found", Field{"payload", string(body)})
			h.processor.notify(ctx, fmt.Sprintf(
				"⚠️ Webhook sem user_id!\n\n"+
					"Evento: %s\n"+
					"Sale ID: %s\n"+
					"Verificar logs!",
				orNA(ev.Event), orNA(ev.SaleID)))
			h.metrics.RecordWebhookEvent(ev.Kind(), "user_not_found")
			// 200 so Kirvano does not retry the same event forever.
			h.respond(w, http.StatusOK, errorBody("user_id not found"))
			return
		}
		h.fail(ctx, w, err)
		return
	}

	h.processor.Dispatch(ctx, userID, ev)

	h.metrics.RecordWebhookEvent(ev.Kind(), "success")
	h.metrics.RecordWebhookProcessingDuration(ev.Kind(), time.Since(start))
	h.respond(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Webhook processado",
		"event":   nullableString(ev.Event),
	})
}

// handleWebhookTest accepts arbitrary JSON, logs it pretty-printed, forwards
// it to the admin channel and echoes it back. Used to inspect unknown
// Kirvano payload shapes; carries no business logic.
func (h *Handler) handleWebhookTest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	setSecurityHeaders(w)

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := internal.ReadBodyStrict(w, r, h.config.MaxBodyBytes)
	if err != nil {
		if errors.Is(err, internal.ErrPayloadTooLarge) {
			h.respond(w, http.StatusRequestEntityTooLarge, errorBody("payload too large"))
			return
		}
		h.logger.Error("webhook test read failed", Field{"error", err})
		h.respond(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		h.logger.Error("webhook test payload malformed", Field{"error", err})
		h.respond(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}

	pretty, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		pretty = body
	}
	h.logger.Info("webhook test payload", Field{"payload", string(pretty)})

	h.processor.notify(ctx, "🧪 <b>TESTE DE WEBHOOK</b>\n\n<pre>"+string(pretty)+"</pre>")

	h.respond(w, http.StatusOK, map[string]interface{}{
		"status": "received",
		"data":   data,
	})
}

// fail resolves an unexpected processing error: log it, alert the admin and
// surface the error text in a 500 body. The raw text in the response is a
// simplicity trade-off acceptable only behind a trusted boundary.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error) {
	h.logger.Error("webhook processing failed", Field{"error", err})
	h.metrics.RecordWebhookError("processing_error")
	h.processor.notify(ctx, "❌ Erro no webhook:\n\n"+err.Error())
	h.respond(w, http.StatusInternalServerError, errorBody(err.Error()))
}

func (h *Handler) respond(w http.ResponseWriter, code int, body interface{}) {
	if err := internal.WriteJSON(w, code, body); err != nil {
		h.logger.Error("failed to write response", Field{"error", err})
	}
}

func errorBody(message string) map[string]string {
	return map[string]string{"status": "error", "message": message}
}

// nullableString renders the event tag as JSON null when absent, matching
// the acknowledgment shape Kirvano integrations already rely on.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func checkMark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

func setSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}
