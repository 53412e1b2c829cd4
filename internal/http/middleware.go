package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tennis-oracle/internal/config"
	"github.com/mauv0809/tennis-oracle/internal/metrics"
	"github.com/slack-go/slack"
	"google.golang.org/api/idtoken"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// paramsMiddleware handles common query parameters like 'verbose'.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		// Handle 'verbose' for request-scoped verbose logging.
		if r.URL.Query().Get("verbose") == "true" {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			// Note: a sync started by this request keeps running after the level is restored.
			defer log.SetLevel(originalLevel)
		}
		next.ServeHTTP(w, r)
	})
}

// usageMiddleware counts calls to an endpoint in the persistent usage store.
func usageMiddleware(usage metrics.UsageStore, key string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if usage != nil {
				usage.Increment(key)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// slackVerifyMiddleware rejects requests that are not signed with the Slack signing secret.
// The body is restored so the handler can parse the form afterwards.
func slackVerifyMiddleware(signingSecret string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if signingSecret == "" {
				log.Warn("Slack signing secret not set, skipping request verification")
				next.ServeHTTP(w, r)
				return
			}

			verifier, err := slack.NewSecretsVerifier(r.Header, signingSecret)
			if err != nil {
				log.Warn("Rejected unsigned Slack request", "error", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				log.Error("Failed to read request body", "error", err)
				http.Error(w, "Failed to read request body", http.StatusInternalServerError)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			if _, err := verifier.Write(body); err != nil {
				log.Error("Failed to hash request body", "error", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if err := verifier.Ensure(); err != nil {
				log.Warn("Rejected Slack request with invalid signature", "error", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// tokenValidator checks a Google-signed ID token for audience.
type tokenValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// pubsubPushAuthMiddleware rejects push requests without a valid OIDC token for
// the configured audience. When a service account is set, the token must be
// issued to it.
func pubsubPushAuthMiddleware(cfg config.PubSubPushConfig, validate tokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Audience == "" {
				log.Warn("Pub/Sub push audience not set, skipping token verification")
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				log.Warn("Rejected Pub/Sub push without bearer token")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			payload, err := validate(r.Context(), token, cfg.Audience)
			if err != nil {
				log.Warn("Rejected Pub/Sub push with invalid token", "error", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if cfg.ServiceAccount != "" {
				email, _ := payload.Claims["email"].(string)
				verified, _ := payload.Claims["email_verified"].(bool)
				if email != cfg.ServiceAccount || !verified {
					log.Warn("Rejected Pub/Sub push from unexpected identity", "email", email)
					http.Error(w, "Forbidden", http.StatusForbidden)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
