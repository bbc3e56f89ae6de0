package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/terraincognita07/sleeptrack/internal/logging"
	"github.com/terraincognita07/sleeptrack/internal/metrics"
)

const (
	remoteUserPath           = "/auth/v1/user"
	remoteBreakerName        = "remote-auth"
	remoteFailuresToTrip     = 5
	remoteOpenStateTimeout   = 30 * time.Second
	remoteMaxResponseBytes   = 1 << 20
	defaultRemoteHTTPTimeout = 5 * time.Second
)

type RemoteConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// HTTPClient overrides the default client built from Timeout.
	HTTPClient *http.Client
}

type remoteUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// remoteOutcome lets a rejected token pass through the breaker as a success:
// only transport and server faults count towards tripping it.
type remoteOutcome struct {
	identity Identity
	rejected bool
}

type RemoteVerifier struct {
	userURL string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[remoteOutcome]
}

func NewRemoteVerifier(cfg RemoteConfig) (*RemoteVerifier, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("remote auth url is required")
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultRemoteHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	metrics.RemoteAuthCircuitState.Set(0)
	breaker := gobreaker.NewCircuitBreaker[remoteOutcome](gobreaker.Settings{
		Name:        remoteBreakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     remoteOpenStateTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= remoteFailuresToTrip
		},
		// A caller that went away says nothing about the provider's health.
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
			metrics.RemoteAuthCircuitState.Set(breakerStateValue(to))
		},
	})

	return &RemoteVerifier{
		userURL: baseURL + remoteUserPath,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		client:  client,
		breaker: breaker,
	}, nil
}

func (verifier *RemoteVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	outcome, err := verifier.breaker.Execute(func() (remoteOutcome, error) {
		return verifier.fetchUser(ctx, token)
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return Identity{}, err
		}
		metrics.AuthVerifications.WithLabelValues(verifierNameRemote, "unavailable").Inc()
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Identity{}, fmt.Errorf("%w: circuit open", ErrUnavailable)
		}
		logging.Ctx(ctx).Warn().Err(err).Msg("remote auth request failed")
		return Identity{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if outcome.rejected {
		metrics.AuthVerifications.WithLabelValues(verifierNameRemote, "invalid").Inc()
		return Identity{}, ErrInvalidToken
	}

	metrics.AuthVerifications.WithLabelValues(verifierNameRemote, "valid").Inc()
	return outcome.identity, nil
}

func (verifier *RemoteVerifier) fetchUser(ctx context.Context, token string) (remoteOutcome, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, verifier.userURL, nil)
	if err != nil {
		return remoteOutcome{}, err
	}
	request.Header.Set("Authorization", "Bearer "+token)
	request.Header.Set("Accept", "application/json")
	if verifier.apiKey != "" {
		request.Header.Set("apikey", verifier.apiKey)
	}

	response, err := verifier.client.Do(request)
	if err != nil {
		return remoteOutcome{}, err
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == http.StatusOK:
	case response.StatusCode == http.StatusTooManyRequests || response.StatusCode >= 500:
		return remoteOutcome{}, fmt.Errorf("remote auth status %d", response.StatusCode)
	default:
		_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, remoteMaxResponseBytes))
		return remoteOutcome{rejected: true}, nil
	}

	var user remoteUser
	if err := json.NewDecoder(io.LimitReader(response.Body, remoteMaxResponseBytes)).Decode(&user); err != nil {
		return remoteOutcome{}, fmt.Errorf("decode remote user: %w", err)
	}
	if strings.TrimSpace(user.ID) == "" {
		return remoteOutcome{rejected: true}, nil
	}

	return remoteOutcome{identity: Identity{UserID: user.ID, Email: user.Email}}, nil
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
