package razorpaywebhook

import (
	"encoding/json"
	"strings"

	"github.com/angelmondragon/farmsip-backend/pkg/enums"
)

// Event is the closed set of decoded webhook variants.
type Event interface {
	Kind() enums.WebhookEventKind
	LinkRef() string
	isEvent()
}

// EventPaymentLinkPaid means the customer completed payment on a hosted link.
type EventPaymentLinkPaid struct {
	Ref       string
	PaymentID string
	Method    string
}

// EventPaymentLinkExpired means the hosted link lapsed unpaid.
type EventPaymentLinkExpired struct {
	Ref string
}

// EventPaymentFailed means a payment attempt against the link failed.
type EventPaymentFailed struct {
	Ref       string
	PaymentID string
	Method    string
	Reason    string
}

// EventPaymentCaptured means funds were captured. Without a link reference it carries nothing
// actionable.
type EventPaymentCaptured struct {
	Ref       string
	PaymentID string
	Method    string
}

// EventUnrecognized is any event outside the handled set, including undecodable bodies.
type EventUnrecognized struct {
	Name string
	Ref  string
}

func (EventPaymentLinkPaid) Kind() enums.WebhookEventKind { return enums.WebhookEventPaymentLinkPaid }
func (EventPaymentLinkExpired) Kind() enums.WebhookEventKind {
	return enums.WebhookEventPaymentLinkExpired
}
func (EventPaymentFailed) Kind() enums.WebhookEventKind   { return enums.WebhookEventPaymentFailed }
func (EventPaymentCaptured) Kind() enums.WebhookEventKind { return enums.WebhookEventPaymentCaptured }
func (EventUnrecognized) Kind() enums.WebhookEventKind    { return enums.WebhookEventUnrecognized }

func (e EventPaymentLinkPaid) LinkRef() string    { return e.Ref }
func (e EventPaymentLinkExpired) LinkRef() string { return e.Ref }
func (e EventPaymentFailed) LinkRef() string      { return e.Ref }
func (e EventPaymentCaptured) LinkRef() string    { return e.Ref }
func (e EventUnrecognized) LinkRef() string       { return e.Ref }

func (EventPaymentLinkPaid) isEvent()    {}
func (EventPaymentLinkExpired) isEvent() {}
func (EventPaymentFailed) isEvent()      {}
func (EventPaymentCaptured) isEvent()    {}
func (EventUnrecognized) isEvent()       {}

// Entity is the union of the fields the engine reads from link and payment entities.
type Entity struct {
	ID               string `json:"id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	OrderID          string `json:"order_id"`
	PaymentLinkID    string `json:"payment_link_id"`
	ReferenceID      string `json:"reference_id"`
	Method           string `json:"method"`
	ErrorDescription string `json:"error_description"`
}

type entityWrapper struct {
	Entity Entity `json:"entity"`
}

// Envelope is the decoded delivery. Payload is always valid JSON, suitable for the event log.
type Envelope struct {
	Name      string
	AccountID string
	CreatedAt int64
	Event     Event
	Payload   json.RawMessage
}

type rawEnvelope struct {
	Event     string  `json:"event"`
	AccountID string  `json:"account_id"`
	CreatedAt int64   `json:"created_at"`
	Entity    *Entity `json:"entity"`
	Payload   struct {
		PaymentLink *entityWrapper `json:"payment_link"`
		Payment     *entityWrapper `json:"payment"`
	} `json:"payload"`
}

// Decode never fails: bodies that are not JSON objects decode to EventUnrecognized and their raw
// text is kept as a JSON string.
func Decode(body []byte) Envelope {
	var raw rawEnvelope
	if err := json.Unmarshal(body, &raw); err != nil {
		quoted, _ := json.Marshal(string(body))
		return Envelope{Event: EventUnrecognized{}, Payload: quoted}
	}

	env := Envelope{
		Name:      raw.Event,
		AccountID: raw.AccountID,
		CreatedAt: raw.CreatedAt,
		Payload:   json.RawMessage(body),
	}

	payment := raw.paymentEntity()
	ref := raw.linkRef()
	switch enums.ParseWebhookEventKind(raw.Event) {
	case enums.WebhookEventPaymentLinkPaid:
		env.Event = EventPaymentLinkPaid{Ref: ref, PaymentID: payment.ID, Method: payment.Method}
	case enums.WebhookEventPaymentLinkExpired:
		env.Event = EventPaymentLinkExpired{Ref: ref}
	case enums.WebhookEventPaymentFailed:
		env.Event = EventPaymentFailed{Ref: ref, PaymentID: payment.ID, Method: payment.Method, Reason: payment.ErrorDescription}
	case enums.WebhookEventPaymentCaptured:
		env.Event = EventPaymentCaptured{Ref: ref, PaymentID: payment.ID, Method: payment.Method}
	default:
		env.Event = EventUnrecognized{Name: raw.Event, Ref: ref}
	}
	return env
}

// linkRef prefers an explicit payment_link_id, then our own reference id on the link entity,
// then the gateway's link id.
func (r rawEnvelope) linkRef() string {
	candidates := []string{}
	if r.Entity != nil {
		candidates = append(candidates, r.Entity.PaymentLinkID)
	}
	if r.Payload.Payment != nil {
		candidates = append(candidates, r.Payload.Payment.Entity.PaymentLinkID)
	}
	if r.Payload.PaymentLink != nil {
		candidates = append(candidates, r.Payload.PaymentLink.Entity.ReferenceID, r.Payload.PaymentLink.Entity.ID)
	}
	for _, candidate := range candidates {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// paymentEntity returns the payment details from either payload shape.
func (r rawEnvelope) paymentEntity() Entity {
	if r.Payload.Payment != nil {
		return r.Payload.Payment.Entity
	}
	if r.Entity != nil {
		return *r.Entity
	}
	return Entity{}
}
