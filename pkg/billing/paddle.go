package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
	"github.com/google/uuid"
)

// PaddleConfig holds the Paddle provider configuration.
type PaddleConfig struct {
	APIKey        string `env:"PADDLE_API_KEY,required"`
	WebhookSecret string `env:"PADDLE_WEBHOOK_SECRET,required"`
	Environment   string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`
}

// PaddleProvider implements Provider for Paddle.
type PaddleProvider struct {
	client   *paddle.SDK
	verifier *paddle.WebhookVerifier
}

// NewPaddleProvider creates a Paddle billing provider.
func NewPaddleProvider(cfg PaddleConfig) (*PaddleProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("billing: paddle API key is required")
	}
	if cfg.WebhookSecret == "" {
		return nil, errors.New("billing: paddle webhook secret is required")
	}

	var (
		client *paddle.SDK
		err    error
	)
	switch strings.ToLower(cfg.Environment) {
	case "sandbox":
		client, err = paddle.NewSandbox(cfg.APIKey)
	case "production", "":
		client, err = paddle.New(cfg.APIKey)
	default:
		return nil, fmt.Errorf("billing: invalid paddle environment %q", cfg.Environment)
	}
	if err != nil {
		return nil, fmt.Errorf("billing: create paddle client: %w", err)
	}

	return &PaddleProvider{
		client:   client,
		verifier: paddle.NewWebhookVerifier(cfg.WebhookSecret),
	}, nil
}

// SignatureHeader implements Provider.
func (p *PaddleProvider) SignatureHeader() string {
	return "Paddle-Signature"
}

// paddleEnvelope is the outer shape of every Paddle webhook.
type paddleEnvelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// paddleCustomData carries the correlator we attach at checkout time.
type paddleCustomData struct {
	OrganizationID string `json:"organization_id"`
}

type paddleTransactionData struct {
	ID             string           `json:"id"`
	SubscriptionID string           `json:"subscription_id"`
	CustomerID     string           `json:"customer_id"`
	CustomData     paddleCustomData `json:"custom_data"`
	Items          []struct {
		Price struct {
			ID string `json:"id"`
		} `json:"price"`
	} `json:"items"`
}

type paddleSubscriptionData struct {
	ID         string           `json:"id"`
	CustomerID string           `json:"customer_id"`
	Status     string           `json:"status"`
	CustomData paddleCustomData `json:"custom_data"`
	Items      []struct {
		Price struct {
			ID string `json:"id"`
		} `json:"price"`
	} `json:"items"`
}

// ParseWebhook implements Provider. The signature is checked first; the
// payload is not even unmarshaled when verification fails.
func (p *PaddleProvider) ParseWebhook(ctx context.Context, payload []byte, signature string) (Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/webhook", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("billing: build verification request: %w", err)
	}
	req.Header.Set("Paddle-Signature", signature)

	valid, err := p.verifier.Verify(req)
	if err != nil {
		return nil, errors.Join(ErrInvalidSignature, err)
	}
	if !valid {
		return nil, ErrInvalidSignature
	}

	var env paddleEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("billing: decode webhook envelope: %w", err)
	}

	meta := EventMeta{ID: env.EventID, Type: env.EventType, OccurredAt: env.OccurredAt}

	switch env.EventType {
	case "transaction.completed":
		var data paddleTransactionData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("billing: decode transaction data: %w", err)
		}
		event := &CheckoutCompleted{
			EventMeta:      meta,
			OrgID:          parseOrgID(data.CustomData),
			CustomerID:     data.CustomerID,
			SubscriptionID: data.SubscriptionID,
		}
		if len(data.Items) > 0 {
			event.PriceID = data.Items[0].Price.ID
		}
		return event, nil

	case "subscription.updated", "subscription.activated", "subscription.trialing",
		"subscription.past_due", "subscription.paused", "subscription.resumed":
		var data paddleSubscriptionData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("billing: decode subscription data: %w", err)
		}
		status, err := mapPaddleStatus(data.Status)
		if err != nil {
			return nil, err
		}
		event := &SubscriptionUpdated{
			EventMeta:      meta,
			OrgID:          parseOrgID(data.CustomData),
			SubscriptionID: data.ID,
			Status:         status,
		}
		if len(data.Items) > 0 {
			event.PriceID = data.Items[0].Price.ID
		}
		return event, nil

	case "subscription.canceled":
		var data paddleSubscriptionData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("billing: decode subscription data: %w", err)
		}
		return &SubscriptionDeleted{EventMeta: meta, SubscriptionID: data.ID}, nil

	case "transaction.payment_succeeded":
		var data paddleTransactionData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("billing: decode transaction data: %w", err)
		}
		return &PaymentSucceeded{EventMeta: meta, SubscriptionID: data.SubscriptionID}, nil

	case "transaction.payment_failed":
		var data paddleTransactionData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("billing: decode transaction data: %w", err)
		}
		return &PaymentFailed{EventMeta: meta, SubscriptionID: data.SubscriptionID}, nil

	default:
		return &UnknownEvent{EventMeta: meta}, nil
	}
}

// GetSubscription implements Provider.
func (p *PaddleProvider) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	sub, err := p.client.SubscriptionsClient.GetSubscription(ctx, &paddle.GetSubscriptionRequest{
		SubscriptionID: subscriptionID,
	})
	if err != nil {
		return nil, fmt.Errorf("billing: get paddle subscription %s: %w", subscriptionID, err)
	}

	status, err := mapPaddleStatus(string(sub.Status))
	if err != nil {
		return nil, err
	}

	result := &Subscription{
		ID:         sub.ID,
		CustomerID: sub.CustomerID,
		Status:     status,
	}
	if len(sub.Items) > 0 {
		result.PriceID = sub.Items[0].Price.ID
	}
	return result, nil
}

func parseOrgID(data paddleCustomData) uuid.UUID {
	if data.OrganizationID == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(data.OrganizationID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// mapPaddleStatus translates Paddle's status vocabulary, failing closed
// on anything unrecognized.
func mapPaddleStatus(paddleStatus string) (Status, error) {
	switch strings.ToLower(paddleStatus) {
	case "trialing":
		return StatusTrialing, nil
	case "active":
		return StatusActive, nil
	case "past_due":
		return StatusPastDue, nil
	case "paused", "unpaid":
		return StatusUnpaid, nil
	case "canceled", "cancelled":
		return StatusCanceled, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, paddleStatus)
	}
}
