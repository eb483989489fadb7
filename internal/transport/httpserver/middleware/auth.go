package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"property-match-go/internal/config"
	userdomain "property-match-go/internal/domain/user"
	"property-match-go/pkg/logger"
)

// UserStore loads (creating on first login) the local user row for a
// verified external identity.
type UserStore interface {
	UpsertByAuthID(ctx context.Context, authID, email, name string) (*userdomain.User, error)
}

// Auth verifies bearer tokens against the external OAuth provider and puts
// the local user record on the request context. The provider owns
// credentials and sessions; this layer only transforms its claims into a
// users-table row.
type Auth struct {
	providerURL string
	apiKey      string
	client      *http.Client
	users       UserStore
	skipAuth    bool
	mockAuthID  string
	mockEmail   string
	mockName    string
	log         logger.Logger
}

type contextKey int

const userKey contextKey = iota

type providerUserResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		FullName string `json:"full_name"`
		Name     string `json:"name"`
	} `json:"user_metadata"`
}

func NewAuth(cfg config.AuthConfig, users UserStore, log logger.Logger) *Auth {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &Auth{
		providerURL: strings.TrimRight(cfg.ProviderURL, "/"),
		apiKey:      cfg.APIKey,
		client:      &http.Client{Timeout: timeout},
		users:       users,
		skipAuth:    cfg.SkipAuth,
		mockAuthID:  strings.TrimSpace(cfg.MockUserID),
		mockEmail:   strings.TrimSpace(cfg.MockUserEmail),
		mockName:    strings.TrimSpace(cfg.MockUserName),
		log:         log,
	}
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.mockAuthID == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			a.finish(w, r, next, a.mockAuthID, a.mockEmail, a.mockName)
			return
		}

		if a.providerURL == "" || a.apiKey == "" {
			writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, a.providerURL+"/auth/v1/user", nil)
		if err != nil {
			unauthorized(w)
			return
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("apikey", a.apiKey)

		resp, err := a.client.Do(req)
		if err != nil {
			a.log.Warn("auth: provider verification failed", "err", err)
			unauthorized(w)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			unauthorized(w)
			return
		}

		var claims providerUserResponse
		if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil || claims.ID == "" {
			unauthorized(w)
			return
		}

		name := claims.UserMetadata.FullName
		if name == "" {
			name = claims.UserMetadata.Name
		}
		a.finish(w, r, next, claims.ID, claims.Email, name)
	})
}

func (a *Auth) finish(w http.ResponseWriter, r *http.Request, next http.Handler, authID, email, name string) {
	record, err := a.users.UpsertByAuthID(r.Context(), authID, email, name)
	if err != nil {
		a.log.InternalError("auth: user upsert failed", err, "auth_id", authID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), record)))
}

func WithUser(ctx context.Context, user *userdomain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (*userdomain.User, bool) {
	user, ok := ctx.Value(userKey).(*userdomain.User)
	return user, ok
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}
