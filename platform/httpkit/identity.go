// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity represents the authenticated caller's identity. The host ticketing
// platform issues the tokens; this service only reads the identity and the
// permission grants carried in them.
type Identity interface {
	// UserID returns the authenticated user's ID.
	UserID() uuid.UUID
	// Permissions returns the caller's granted permission strings.
	Permissions() []string
	// HasPermission checks if the caller holds a specific permission.
	HasPermission(permission string) bool
	// IsAuthenticated returns true if the caller is authenticated.
	IsAuthenticated() bool
}

// identity is the concrete implementation of Identity.
type identity struct {
	userID        uuid.UUID
	permissions   []string
	authenticated bool
}

func (i *identity) UserID() uuid.UUID {
	return i.userID
}

func (i *identity) Permissions() []string {
	return i.permissions
}

func (i *identity) HasPermission(permission string) bool {
	for _, p := range i.permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if user info is not present.
func GetIdentity(c *gin.Context) Identity {
	userID, userOK := c.Get(ContextUserIDKey)
	permissions, permsOK := c.Get(ContextPermissionsKey)

	if !userOK {
		return &identity{authenticated: false}
	}

	uid, ok := userID.(uuid.UUID)
	if !ok {
		return &identity{authenticated: false}
	}

	var permissionList []string
	if permsOK {
		permissionList, _ = permissions.([]string)
	}

	return &identity{
		userID:        uid,
		permissions:   permissionList,
		authenticated: true,
	}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the caller is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}
	return id
}
