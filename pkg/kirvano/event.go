package kirvano

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Event types pushed by Kirvano, matched case-sensitively.
const (
	EventSaleApproved         = "SALE_APPROVED"
	EventSubscriptionCreated  = "SUBSCRIPTION_CREATED"
	EventSubscriptionRenewed  = "SUBSCRIPTION_RENEWED"
	EventSubscriptionCanceled = "SUBSCRIPTION_CANCELED"
	EventRefundRequested      = "REFUND_REQUESTED"
)

// Event is the inbound Kirvano webhook payload. Only the fields the
// receiver acts on are modeled; anything else in the payload is ignored.
// An Event lives for a single request and is never persisted.
type Event struct {
	// Event is the provider event type tag (e.g. "SALE_APPROVED").
	Event string `json:"event"`

	// SaleID is the opaque sale identifier assigned by Kirvano.
	SaleID string `json:"sale_id"`

	// CheckoutID is the opaque checkout identifier. Logged only.
	CheckoutID string `json:"checkout_id"`

	// TotalPrice and PaymentMethod are free-form display fields.
	TotalPrice    string `json:"total_price"`
	PaymentMethod string `json:"payment_method"`

	// Token is the shared secret when Kirvano is configured to send it in
	// the body rather than the X-Kirvano-Token header.
	Token string `json:"token"`

	// Customer holds buyer details collected at checkout.
	Customer Customer `json:"customer"`

	// Metadata carries checkout custom fields. Values arrive as strings or
	// numbers depending on how the checkout form was configured.
	Metadata map[string]interface{} `json:"metadata"`
}

// Customer is the nested buyer object of a webhook payload.
type Customer struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// ParseEvent decodes a webhook body into an Event. Numbers in metadata are
// kept as json.Number so integer identifiers survive intact.
func ParseEvent(body []byte) (*Event, error) {
	dec := json.NewDecoder(strings.NewReader(string(body)))
	dec.UseNumber()

	var ev Event
	if err := dec.Decode(&ev); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("multiple JSON objects in payload")
	}
	return &ev, nil
}

// Kind returns the event type, or "UNKNOWN" when the payload carries none.
func (e *Event) Kind() string {
	if strings.TrimSpace(e.Event) == "" {
		return "UNKNOWN"
	}
	return e.Event
}

// orNA substitutes the display placeholder for absent payload fields.
func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
