package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"os"
	"strings"
	"time"
)

type ctxKey string

const (
	sessionCookieName = "session"
	loginCtxKey       = ctxKey("login")
)

// LoginVerifier is an optional callback to validate that a session's account
// still exists. Set during app bootstrap via SetLoginVerifier. If nil, no
// extra verification is performed.
type LoginVerifier func(ctx context.Context, login string) bool

var verifier LoginVerifier

// SetLoginVerifier configures the global verifier used by RequireAuth.
func SetLoginVerifier(v LoginVerifier) { verifier = v }

// Secret returns SESSION_SECRET or a default dev value.
func Secret() string {
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return s
	}
	return "devsessionsecret"
}

func sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(Secret()))
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// CreateSession sets a signed cookie carrying the account login.
func CreateSession(w http.ResponseWriter, login string) {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(login))
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    encoded + "." + sign(encoded),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(14 * 24 * time.Hour),
	})
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// ParseSession validates the cookie signature and returns the login.
func ParseSession(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	parts := strings.Split(c.Value, ".")
	if len(parts) != 2 {
		return "", false
	}
	encoded, sig := parts[0], parts[1]
	if !hmac.Equal([]byte(sig), []byte(sign(encoded))) {
		return "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(raw) == 0 {
		return "", false
	}
	return string(raw), true
}

// WithLogin stores the login in context.
func WithLogin(ctx context.Context, login string) context.Context {
	return context.WithValue(ctx, loginCtxKey, login)
}

// LoginFromContext extracts the login of the authenticated account.
func LoginFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(loginCtxKey).(string)
	return v, ok && v != ""
}

// Middleware attaches the session login to the request context if present.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if login, ok := ParseSession(r); ok {
			r = r.WithContext(WithLogin(r.Context(), login))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth redirects to /login when no valid session is present, or when
// the session refers to an account that no longer exists.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		login, ok := LoginFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if verifier != nil && !verifier(r.Context(), login) {
			ClearSession(w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
