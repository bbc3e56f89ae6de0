package api

import (
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/sleeptrack/internal/auth"
	"github.com/terraincognita07/sleeptrack/internal/logging"
	"github.com/terraincognita07/sleeptrack/internal/metrics"
)

const (
	contextIdentityKey  = "identity"
	requestIDLocalsKey  = "requestid"
	changePasswordRoute = "/api/auth/change-password"
)

func currentIdentity(c *fiber.Ctx) (auth.Identity, bool) {
	identity, ok := c.Locals(contextIdentityKey).(auth.Identity)
	return identity, ok
}

// RequestContext copies the request id set by the requestid middleware into
// the user context so that logging.Ctx picks it up.
func RequestContext(c *fiber.Ctx) error {
	requestID, _ := c.Locals(requestIDLocalsKey).(string)
	if requestID == "" {
		requestID = logging.GenerateRequestID()
		c.Set(fiber.HeaderXRequestID, requestID)
	}
	c.SetUserContext(logging.ContextWithRequestID(c.UserContext(), requestID))
	return c.Next()
}

// AccessLog writes one event per request and records the HTTP metrics.
// Chain errors are rendered here so that the logged status is final.
func AccessLog(c *fiber.Ctx) error {
	start := time.Now()

	if chainErr := c.Next(); chainErr != nil {
		if err := c.App().ErrorHandler(c, chainErr); err != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	latency := time.Since(start)
	status := c.Response().StatusCode()
	route := c.Route().Path

	metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(latency.Seconds())

	event := logging.Ctx(c.UserContext()).Info()
	if status >= fiber.StatusInternalServerError {
		event = logging.Ctx(c.UserContext()).Warn()
	}
	event.
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("route", route).
		Int("status", status).
		Dur("latency", latency).
		Str("ip", c.IP()).
		Msg("request")
	return nil
}

// AuthRequired resolves the bearer token and makes sure the caller has a
// profile row.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	token, ok := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "authorization token missing")
	}

	identity, err := handler.verifier.Verify(c.UserContext(), token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			return apiError(c, fiber.StatusUnauthorized, "invalid or expired token")
		case errors.Is(err, auth.ErrUnavailable):
			return apiError(c, fiber.StatusServiceUnavailable, "auth provider unavailable")
		default:
			return internalError(c, err, "failed to verify token")
		}
	}

	c.SetUserContext(logging.ContextWithUserID(c.UserContext(), identity.UserID))
	if _, err := handler.profileService.Ensure(identity.UserID, identity.Email); err != nil {
		return internalError(c, err, "failed to load profile")
	}

	if handler.localAccounts() && c.Path() != changePasswordRoute {
		required, err := handler.authService.PasswordChangeRequired(identity.UserID)
		if err != nil {
			return internalError(c, err, "failed to load account")
		}
		if required {
			return apiError(c, fiber.StatusForbidden, "password change required")
		}
	}

	c.Locals(contextIdentityKey, identity)
	return c.Next()
}

// RateLimited throttles account endpoints per client address.
func (handler *Handler) RateLimited(c *fiber.Ctx) error {
	allowed, retryAfter := handler.authLimiter.allow(requestLimiterKey(c), handler.now())
	if allowed {
		return c.Next()
	}

	metrics.AuthRateLimited.Inc()
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	c.Set(fiber.HeaderRetryAfter, strconv.Itoa(seconds))
	return apiError(c, fiber.StatusTooManyRequests, "too many attempts")
}

// ErrorHandler renders errors that escaped the handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return apiError(c, fiberErr.Code, fiberErr.Message)
	}
	return internalError(c, err, "internal server error")
}
