package middlewares

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/khanghh/kaudit/internal/audit"
	"github.com/khanghh/kaudit/model"
)

const (
	RoleAdmin        = "admin"
	RoleProducer     = "producer"
	RoleAuditor      = "auditor"
	RoleInvestigator = "investigator"
)

const principalKey = "principal"

type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller of an API request.
type Principal struct {
	Subject string
	Roles   []string
}

func (p *Principal) HasRole(roles ...string) bool {
	if slices.Contains(p.Roles, RoleAdmin) {
		return true
	}
	for _, r := range roles {
		if slices.Contains(p.Roles, r) {
			return true
		}
	}
	return false
}

type AuthConfig struct {
	Secret []byte
	Issuer string
}

// IssueToken signs an HS256 bearer token for subject.
func IssueToken(cfg AuthConfig, subject string, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
}

func parseToken(cfg AuthConfig, raw string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return &claims, nil
}

// Authenticate requires a valid bearer token. Rejected tokens are recorded as
// failed logins so brute force against the API is detected too.
func Authenticate(cfg AuthConfig) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing bearer token")
		}
		claims, err := parseToken(cfg, raw)
		if err != nil {
			subject := ""
			if tok, _, perr := jwt.NewParser().ParseUnverified(raw, &Claims{}); perr == nil {
				subject, _ = tok.Claims.GetSubject()
			}
			recordErr := audit.RecordLogin(ctx.UserContext(), audit.LoginRecord{
				UserID:    subject,
				Method:    "api_token",
				IP:        ctx.IP(),
				UserAgent: ctx.Get(fiber.HeaderUserAgent),
				Success:   false,
				Reason:    err.Error(),
			})
			if recordErr != nil {
				slog.Warn("Failed to record rejected token", "error", recordErr)
			}
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid bearer token")
		}
		ctx.Locals(principalKey, &Principal{Subject: claims.Subject, Roles: claims.Roles})
		return ctx.Next()
	}
}

func GetPrincipal(ctx *fiber.Ctx) *Principal {
	p, _ := ctx.Locals(principalKey).(*Principal)
	return p
}

// RequireRoles lets the request through when the principal holds any of
// roles. Denials are recorded.
func RequireRoles(roles ...string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		p := GetPrincipal(ctx)
		if p == nil {
			return fiber.ErrUnauthorized
		}
		if p.HasRole(roles...) {
			return ctx.Next()
		}
		err := audit.RecordAuthorization(ctx.UserContext(), audit.AuthorizationRecord{
			ActorID:     p.Subject,
			ActorType:   model.ActorTypeUser,
			Roles:       p.Roles,
			Action:      strings.ToLower(ctx.Method()) + " " + ctx.Route().Path,
			Resource:    "api",
			ResourceID:  ctx.Path(),
			Granted:     false,
			Sensitivity: model.SensitivityConfidential,
			Reason:      fmt.Sprintf("requires one of %s", strings.Join(roles, ", ")),
		})
		if err != nil {
			slog.Warn("Failed to record authorization denial", "error", err)
		}
		return fiber.NewError(fiber.StatusForbidden, "Insufficient role")
	}
}
