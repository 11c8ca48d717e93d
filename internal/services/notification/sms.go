package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"advance/internal/config"
	"advance/internal/models"

	"github.com/gofiber/fiber/v2"
)

const maxSMSLength = 150

// SMSSender delivers text messages through Africa's Talking. The provider
// answers 201 Created for an accepted message.
type SMSSender struct {
	cfg config.SMSConfig
}

func NewSMSSender(cfg config.SMSConfig) *SMSSender {
	if cfg.SenderID == "" {
		cfg.SenderID = "ADVANCE"
	}
	return &SMSSender{cfg: cfg}
}

func (s *SMSSender) Channel() models.Channel { return models.ChannelSMS }

func (s *SMSSender) Send(ctx context.Context, to Recipient, msg Message) error {
	if !s.cfg.Configured() {
		return ErrChannelNotConfigured
	}
	if to.Phone == "" {
		return ErrNoAddress
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	text := msg.SMSBody
	if text == "" {
		text = TruncateSMS(msg.Body)
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("username", s.cfg.Username)
	args.Set("to", to.Phone)
	args.Set("message", text)
	args.Set("from", s.cfg.SenderID)

	agent := fiber.Post(s.cfg.URL).
		Set("apiKey", s.cfg.APIKey).
		Set("Accept", "application/json").
		Form(args)
	if err := agent.Parse(); err != nil {
		return fmt.Errorf("invalid sms endpoint: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(timeUntil(deadline, s.cfg.Timeout))
	} else if s.cfg.Timeout > 0 {
		agent.Timeout(s.cfg.Timeout)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("sms request failed: %w", errs[0])
	}
	if code != fiber.StatusCreated {
		return fmt.Errorf("sms provider returned %d: %s", code, strings.TrimSpace(string(body)))
	}
	return nil
}

// TruncateSMS shortens text to 150 characters followed by "...".
func TruncateSMS(text string) string {
	runes := []rune(text)
	if len(runes) <= maxSMSLength {
		return text
	}
	return string(runes[:maxSMSLength]) + "..."
}

func timeUntil(deadline time.Time, limit time.Duration) time.Duration {
	d := time.Until(deadline)
	if limit > 0 && limit < d {
		return limit
	}
	if d <= 0 {
		return time.Millisecond
	}
	return d
}
