package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/filenamedotexe/agency-os-sub006/logging"
	"github.com/filenamedotexe/agency-os-sub006/models"
	"github.com/filenamedotexe/agency-os-sub006/utils"
)

// Identity is the resolved caller of a request.
type Identity struct {
	UserID string
	Role   models.Role
}

type contextKey string

const identityKey contextKey = "identity"

// IdentityFrom returns the identity resolved by the guard middleware.
func IdentityFrom(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(identityKey).(Identity)
	return id, ok
}

// Guard resolves session tokens and enforces the access policy.
type Guard struct {
	Secret []byte
}

func (g *Guard) resolve(r *http.Request) (Identity, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return Identity{}, false
	}

	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := utils.ValidateToken(tokenStr, g.Secret)
	if err != nil {
		logging.Logger.Warnf("Event ID: AUTH_INVALID_TOKEN, Description: Invalid token provided for request to %s %s: %v", r.Method, r.URL.Path, err)
		return Identity{}, false
	}

	return Identity{UserID: claims.UserID, Role: models.Role(claims.Role)}, true
}

// API guards an API route: 401 JSON without a valid session, 403 JSON when
// the role is not permitted for the resource.
func (g *Guard) API(next http.Handler, resource Resource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := g.resolve(r)
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !Allowed(identity.Role, resource) {
			logging.Logger.Warnf("Event ID: AUTH_FORBIDDEN, Description: Role '%s' denied access to %s %s", identity.Role, r.Method, r.URL.Path)
			writeJSONError(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
	})
}

// Page guards a page route: unauthenticated callers are redirected to the
// login entry point before any domain data is fetched; role-mismatched
// callers are redirected to their canonical home.
func (g *Guard) Page(next http.Handler, resource Resource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := g.resolve(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if !Allowed(identity.Role, resource) {
			http.Redirect(w, r, HomeFor(identity.Role), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
	})
}

// PageAny guards a page that any signed-in caller may view.
func (g *Guard) PageAny(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := g.resolve(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
	})
}

// PageRole guards a role home: only the exact role sees it, every other
// signed-in role is redirected to their own home.
func (g *Guard) PageRole(next http.Handler, role models.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := g.resolve(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if identity.Role != role {
			http.Redirect(w, r, HomeFor(identity.Role), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
	})
}

// Authenticated guards a route that any signed-in caller may use.
func (g *Guard) Authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := g.resolve(r)
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
	})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// EnableCORS applies the CORS headers used by the dashboard frontend.
func EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
