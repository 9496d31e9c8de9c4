package alert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

type SMSConfig struct {
	GatewayURL string   `mapstructure:"gatewayURL"`
	APIKey     string   `mapstructure:"apiKey"`
	From       string   `mapstructure:"from"`
	Recipients []string `mapstructure:"recipients"`
}

// SMSChannel posts a short text per recipient to an HTTP SMS gateway.
type SMSChannel struct {
	cfg SMSConfig
}

func (c *SMSChannel) Name() string {
	return "sms"
}

func (c *SMSChannel) Send(ctx context.Context, a *Alert) error {
	if len(c.cfg.Recipients) == 0 {
		return ErrNoRecipients
	}
	text := smsText(a)
	var errs []error
	for _, to := range c.cfg.Recipients {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		if err := c.post(ctx, to, text); err != nil {
			errs = append(errs, fmt.Errorf("send to %s: %w", to, err))
		}
	}
	return errors.Join(errs...)
}

func (c *SMSChannel) post(ctx context.Context, to, text string) error {
	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("to", to)
	args.Set("from", c.cfg.From)
	args.Set("message", text)

	agent := fiber.Post(c.cfg.GatewayURL).Form(args)
	if c.cfg.APIKey != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.cfg.APIKey)
	}
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	}
	code, resp, errs := agent.Bytes()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if code < 200 || code >= 300 {
		return fmt.Errorf("%w: status %d: %.200s", ErrUnexpectedRes, code, resp)
	}
	return nil
}

// smsText fits the alert into a single 160 character message.
func smsText(a *Alert) string {
	text := fmt.Sprintf("[%s] %s: %s", strings.ToUpper(a.Severity.String()), a.Rule, a.Summary)
	if len(text) > 160 {
		text = text[:157] + "..."
	}
	return text
}

func NewSMSChannel(cfg SMSConfig) (*SMSChannel, error) {
	if cfg.GatewayURL == "" {
		return nil, errors.New("sms gateway url is required")
	}
	return &SMSChannel{cfg: cfg}, nil
}
