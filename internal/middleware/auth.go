package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mitrahse/vendorhr-api/internal/models"
)

// Context keys set by the auth middlewares
const (
	ContextAccountID = "accountID"
	ContextUsername  = "username"
	ContextRealm     = "realm"
	ContextRole      = "role"
	ContextTenant    = "tenant"
	ContextClaims    = "claims"
	ContextToken     = "token"
)

// Claims represents the JWT claims structure of both realms
type Claims struct {
	AccountID   uint     `json:"account_id"`
	Username    string   `json:"username"`
	Role        string   `json:"role,omitempty"`
	Realm       string   `json:"realm"`
	Tenant      string   `json:"tenant,omitempty"`
	AccessPages []string `json:"access_pages,omitempty"`
	jwt.RegisteredClaims
}

// Secrets holds the signing secret of each realm
type Secrets struct {
	Admin string
	User  string
}

// AdminAuth accepts only admin-realm tokens
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			return
		}
		claims, err := validateToken(token, secret, models.RealmAdmin)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		setClaims(c, token, claims)
		c.Next()
	}
}

// UserAuth accepts only company-user tokens
func UserAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			return
		}
		claims, err := validateToken(token, secret, models.RealmUser)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		setClaims(c, token, claims)
		c.Next()
	}
}

// AnyAuth accepts a token of either realm. The realm claim decides which
// secret must have signed it.
func AnyAuth(secrets Secrets) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			return
		}
		claims, err := validateToken(token, secrets.Admin, models.RealmAdmin)
		if err != nil {
			claims, err = validateToken(token, secrets.User, models.RealmUser)
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		setClaims(c, token, claims)
		c.Next()
	}
}

// bearerToken reads "Authorization: Bearer <token>", falling back to the
// token query parameter used by download links. It aborts when absent.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if token := c.Query("token"); token != "" {
			return token, true
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "header Authorization wajib diisi",
		})
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "format header Authorization tidak valid",
		})
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// validateToken parses and validates a JWT token string of one realm
func validateToken(tokenString, secret, realm string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token sudah kedaluwarsa")
		}
		return nil, errors.New("token tidak valid")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("token tidak valid")
	}
	if claims.Realm != realm {
		return nil, errors.New("token tidak berlaku untuk halaman ini")
	}

	return claims, nil
}

func setClaims(c *gin.Context, token string, claims *Claims) {
	c.Set(ContextAccountID, claims.AccountID)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextRealm, claims.Realm)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextTenant, claims.Tenant)
	c.Set(ContextClaims, claims)
	c.Set(ContextToken, token)
}

// GetClaims returns the validated claims, or nil
func GetClaims(c *gin.Context) *Claims {
	v, exists := c.Get(ContextClaims)
	if !exists {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}

// GetAccountID extracts the account ID from the Gin context
func GetAccountID(c *gin.Context) uint {
	id, exists := c.Get(ContextAccountID)
	if !exists {
		return 0
	}
	return id.(uint)
}

// GetRealm extracts the token realm from the Gin context
func GetRealm(c *gin.Context) string {
	return c.GetString(ContextRealm)
}

// IsAdmin reports whether the request carries an admin-realm token
func IsAdmin(c *gin.Context) bool {
	return GetRealm(c) == models.RealmAdmin
}

// RequireRole returns a middleware that requires one of the admin roles
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAdmin(c) {
			role := c.GetString(ContextRole)
			for _, allowed := range allowedRoles {
				if role == allowed {
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "tidak memiliki akses ke bagian ini",
		})
	}
}
