package signup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	json "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultEndpoint is the EmailJS REST send endpoint.
const DefaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

var (
	// ErrDeliveryFailed covers every unsuccessful send: transport errors and
	// any response status other than 200.
	ErrDeliveryFailed = errors.New("signup: delivery failed")
	// ErrMissingCredentials is returned when a credential is empty.
	ErrMissingCredentials = errors.New("signup: missing email service credentials")
)

// Sender delivers a registration.
type Sender interface {
	Send(ctx context.Context, reg Registration) error
}

// EmailJSConfig identifies the EmailJS service and tunes the client.
type EmailJSConfig struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	Endpoint   string
	Timeout    time.Duration
	// RateLimit is the sustained sends per second; Burst the bucket size.
	RateLimit float64
	Burst     int
}

// EmailJS sends registrations through the EmailJS REST API.
type EmailJS struct {
	cfg     EmailJSConfig
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// NewEmailJS builds a client. A nil httpClient gets one with cfg.Timeout.
func NewEmailJS(cfg EmailJSConfig, httpClient *http.Client, logger *zap.Logger) (*EmailJS, error) {
	if cfg.ServiceID == "" || cfg.TemplateID == "" || cfg.PublicKey == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailJS{
		cfg:     cfg,
		client:  httpClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		logger:  logger.Named("EmailJS"),
	}, nil
}

// Send posts one registration. Only HTTP 200 counts as delivered.
func (c *EmailJS) Send(ctx context.Context, reg Registration) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: waiting for rate limiter: %v", ErrDeliveryFailed, err)
	}

	body, err := json.Marshal(emailJSRequest{
		ServiceID:      c.cfg.ServiceID,
		TemplateID:     c.cfg.TemplateID,
		UserID:         c.cfg.PublicKey,
		TemplateParams: reg.Params(),
	})
	if err != nil {
		return fmt.Errorf("signup: encoding request: %w", err)
	}

	requestID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("signup: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("send failed", zap.String("request_id", requestID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("send rejected",
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet))
		return fmt.Errorf("%w: status %d", ErrDeliveryFailed, resp.StatusCode)
	}
	c.logger.Info("registration delivered",
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
