// Package httpkit provides HTTP utilities including tenant identity extraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantIdentity represents the authenticated tenant account.
// It abstracts identity extraction from the web framework so handlers can pass
// the tenant scope to services without depending on Gin context keys.
type TenantIdentity interface {
	// TenantID returns the authenticated tenant's ID.
	TenantID() uuid.UUID
	// Name returns the tenant display name when the token carries one.
	Name() string
	// IsAuthenticated returns true if a tenant scope is present.
	IsAuthenticated() bool
}

type tenantIdentity struct {
	tenantID      uuid.UUID
	name          string
	authenticated bool
}

func (t *tenantIdentity) TenantID() uuid.UUID {
	return t.tenantID
}

func (t *tenantIdentity) Name() string {
	return t.name
}

func (t *tenantIdentity) IsAuthenticated() bool {
	return t.authenticated
}

// GetTenant extracts the TenantIdentity from a Gin context.
// Returns an unauthenticated identity if no tenant scope is present.
func GetTenant(c *gin.Context) TenantIdentity {
	value, ok := c.Get(ContextTenantIDKey)
	if !ok {
		return &tenantIdentity{authenticated: false}
	}

	tenantID, ok := value.(uuid.UUID)
	if !ok {
		return &tenantIdentity{authenticated: false}
	}

	name := c.GetString(ContextTenantNameKey)

	return &tenantIdentity{
		tenantID:      tenantID,
		name:          name,
		authenticated: true,
	}
}

// MustGetTenant extracts the TenantIdentity from a Gin context.
// If no tenant is authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetTenant(c *gin.Context) TenantIdentity {
	id := GetTenant(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}
	return id
}
