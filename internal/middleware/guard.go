package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mitrahse/vendorhr-api/internal/guard"
	"github.com/mitrahse/vendorhr-api/internal/metrics"
	"github.com/mitrahse/vendorhr-api/internal/models"
)

// UserLoginPath is where unauthorized company users are sent
const UserLoginPath = "/login"

// VerifierFactory returns the verifier for the company user behind a token
type VerifierFactory func(accountID uint) guard.Verifier

// TenantAccess admits admins to every configured tenant and company users to
// their own tenant. validTenant rejects unknown slugs with 404.
func TenantAccess(validTenant func(string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant := c.Param("tenant")
		if !validTenant(tenant) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "perusahaan tidak dikenal"})
			return
		}
		if IsAdmin(c) {
			c.Next()
			return
		}
		if GetRealm(c) != models.RealmUser || c.GetString(ContextTenant) != tenant {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "tidak memiliki akses ke perusahaan ini"})
			return
		}
		c.Next()
	}
}

// PageGuard runs the route guard for company users. The page path is the
// request path without the /api prefix. Pages listed in the token are
// admitted directly; anything else is confirmed by the verifier, and a
// failed check answers 403 with the login redirect.
func PageGuard(verifierFor VerifierFactory) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAdmin(c) {
			c.Next()
			return
		}

		var pages []string
		if claims := GetClaims(c); claims != nil {
			pages = claims.AccessPages
		}
		store := guard.NewMemoryStore(c.GetString(ContextToken), pages)

		var verifier guard.Verifier
		if verifierFor != nil {
			verifier = verifierFor(GetAccountID(c))
		}

		path := PagePath(c.Request.URL.Path)
		decision := guard.New(store, verifier, UserLoginPath).Check(c.Request.Context(), path)
		metrics.Metrics.GuardDecisions.WithLabelValues(decision.State, strconv.FormatBool(decision.Verified)).Inc()

		if !decision.Authorized() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "tidak memiliki akses ke halaman ini",
				"redirect": decision.Redirect,
			})
			return
		}
		c.Next()
	}
}

// PagePath maps an API path onto the page path stored in access lists
func PagePath(apiPath string) string {
	p := strings.TrimPrefix(apiPath, "/api")
	if p == "" {
		return "/"
	}
	return p
}
