package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mauv0809/tennis-oracle/internal/config"
	"github.com/mauv0809/tennis-oracle/internal/notifier"
	"github.com/stretchr/testify/assert"
	"google.golang.org/api/idtoken"
)

const testPushAudience = "https://oracle.example.com/pubsub/data-synced"

func fakeValidator(claims map[string]any) tokenValidator {
	return func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
		if token != "good-token" || audience != testPushAudience {
			return nil, errors.New("idtoken: invalid token")
		}
		return &idtoken.Payload{Audience: audience, Claims: claims}, nil
	}
}

func TestPubSubPushAuthMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	pushAccount := map[string]any{"email": "push@tennis.iam.gserviceaccount.com", "email_verified": true}

	testCases := []struct {
		name   string
		cfg    config.PubSubPushConfig
		claims map[string]any
		header string
		want   int
	}{
		{name: "no audience skips verification", want: http.StatusOK},
		{name: "missing token", cfg: config.PubSubPushConfig{Audience: testPushAudience}, want: http.StatusUnauthorized},
		{name: "not a bearer token", cfg: config.PubSubPushConfig{Audience: testPushAudience}, header: "Basic Zm9vOmJhcg==", want: http.StatusUnauthorized},
		{name: "invalid token", cfg: config.PubSubPushConfig{Audience: testPushAudience}, header: "Bearer forged", want: http.StatusUnauthorized},
		{name: "valid token", cfg: config.PubSubPushConfig{Audience: testPushAudience}, header: "Bearer good-token", want: http.StatusOK},
		{
			name:   "valid token from the push account",
			cfg:    config.PubSubPushConfig{Audience: testPushAudience, ServiceAccount: "push@tennis.iam.gserviceaccount.com"},
			claims: pushAccount,
			header: "Bearer good-token",
			want:   http.StatusOK,
		},
		{
			name:   "valid token from another account",
			cfg:    config.PubSubPushConfig{Audience: testPushAudience, ServiceAccount: "other@tennis.iam.gserviceaccount.com"},
			claims: pushAccount,
			header: "Bearer good-token",
			want:   http.StatusForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := Chain(ok, pubsubPushAuthMiddleware(tc.cfg, fakeValidator(tc.claims)))
			req := httptest.NewRequest(http.MethodPost, "/pubsub/data-synced", strings.NewReader("{}"))
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()

			h.ServeHTTP(rr, req)

			assert.Equal(t, tc.want, rr.Code)
		})
	}
}

func TestDataSyncedRequiresTokenWhenConfigured(t *testing.T) {
	base := setupTestServer(t, wimbledonProvider(), notifier.NewMock(), "")
	syncFixtures(t, base)
	cfg := base.Cfg
	cfg.PubSubPush = config.PubSubPushConfig{Audience: testPushAudience}
	server := NewServer(base.Store, base.Engine, base.Resolver, base.Cache, base.Metrics, base.MetricsHandler, base.Usage, cfg, base.Notifier, base.pubsub, nil)

	serve(server, "GET", "/api/tournament-winner?tournament=Wimbledon&year=2019", nil)
	rr := serve(server, "POST", "/pubsub/data-synced", strings.NewReader("{}"))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, 1, server.Cache.Len(), "unauthenticated push must not clear the cache")
}
