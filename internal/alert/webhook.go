package alert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kaudit/internal/common"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const signatureHeader = "X-Kaudit-Signature"

type OAuth2Config struct {
	ClientID     string   `mapstructure:"clientID"`
	ClientSecret string   `mapstructure:"clientSecret"`
	TokenURL     string   `mapstructure:"tokenURL"`
	Scopes       []string `mapstructure:"scopes"`
}

type WebhookConfig struct {
	Name    string            `mapstructure:"name"`
	URL     string            `mapstructure:"url"`
	Secret  string            `mapstructure:"secret"`
	Headers map[string]string `mapstructure:"headers"`
	OAuth2  *OAuth2Config     `mapstructure:"oauth2"`
}

// WebhookChannel posts the alert as JSON. The body is signed with the shared
// secret when one is configured.
type WebhookChannel struct {
	name    string
	url     string
	secret  string
	headers map[string]string
	tokens  oauth2.TokenSource
}

func (c *WebhookChannel) Name() string {
	return c.name
}

func (c *WebhookChannel) Send(ctx context.Context, a *Alert) error {
	body, err := json.Marshal(a)
	if err != nil {
		return err
	}

	agent := fiber.Post(c.url).
		ContentType(fiber.MIMEApplicationJSON).
		Body(body)
	for k, v := range c.headers {
		agent.Set(k, v)
	}
	if c.secret != "" {
		agent.Set(signatureHeader, "sha256="+common.CalculateHash(c.secret, body))
	}
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("fetch webhook token: %w", err)
		}
		agent.Set(fiber.HeaderAuthorization, token.Type()+" "+token.AccessToken)
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

func NewWebhookChannel(cfg WebhookConfig) (*WebhookChannel, error) {
	if cfg.URL == "" {
		return nil, errors.New("webhook url is required")
	}
	name := cfg.Name
	if name == "" {
		name = "webhook"
	}
	ch := &WebhookChannel{
		name:    name,
		url:     cfg.URL,
		secret:  cfg.Secret,
		headers: cfg.Headers,
	}
	if cfg.OAuth2 != nil && cfg.OAuth2.TokenURL != "" {
		cc := &clientcredentials.Config{
			ClientID:     cfg.OAuth2.ClientID,
			ClientSecret: cfg.OAuth2.ClientSecret,
			TokenURL:     cfg.OAuth2.TokenURL,
			Scopes:       cfg.OAuth2.Scopes,
		}
		ch.tokens = cc.TokenSource(context.Background())
	}
	return ch, nil
}
