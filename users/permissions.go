package users

import (
	"context"
	"fmt"
	"slices"
	"time"

	"gorm.io/gorm"

	"github.com/shree-dhimal/commoncore/apperror"
	"github.com/shree-dhimal/commoncore/cache"
)

// Actions a permission codename can grant, in the "<action>_<resource>" form.
const (
	ActionView   = "view"
	ActionAdd    = "add"
	ActionChange = "change"
	ActionDelete = "delete"
)

// Actions lists all valid permission actions in check order.
var Actions = []string{ActionView, ActionAdd, ActionChange, ActionDelete}

// permissionCacheTTL bounds how stale a cached permission decision can be.
const permissionCacheTTL = 5 * time.Minute

// Checker resolves whether a user holds a permission on a resource, walking
// the user's groups. Decisions are cached in Redis when a cache client is
// provided; cache failures are ignored so a dead cache never blocks a
// request, it only costs extra queries.
type Checker struct {
	db    *gorm.DB
	cache *cache.Client
}

// NewChecker creates a Checker. cacheClient may be nil to disable caching.
func NewChecker(db *gorm.DB, cacheClient *cache.Client) *Checker {
	if db == nil {
		panic("users.NewChecker: db must not be nil")
	}
	return &Checker{db: db, cache: cacheClient}
}

// HasPermission reports whether user may perform action on resource.
// Superusers always may. Unknown actions are a validation error.
func (c *Checker) HasPermission(ctx context.Context, user *User, resource, action string) (bool, error) {
	if user == nil {
		return false, nil
	}
	if !slices.Contains(Actions, action) {
		return false, apperror.New(apperror.CodeValidation,
			fmt.Sprintf("invalid action %q: valid actions are %v", action, Actions), nil)
	}
	if user.IsSuperuser {
		return true, nil
	}

	cacheKey := fmt.Sprintf("user_perm:%d:%s:%s", user.ID, resource, action)
	if c.cache != nil {
		var cached bool
		if err := c.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	codename := action + "_" + resource
	var count int64
	err := c.db.WithContext(ctx).
		Table("permissions").
		Joins("JOIN group_permissions ON group_permissions.permission_id = permissions.id").
		Joins("JOIN user_groups ON user_groups.group_id = group_permissions.group_id").
		Where("user_groups.user_id = ? AND permissions.codename = ?", user.ID, codename).
		Count(&count).Error
	if err != nil {
		return false, apperror.New(apperror.CodeInternal, "permission lookup failed", err)
	}

	hasPerm := count > 0
	if c.cache != nil {
		// Best effort; a cache write failure is not a permission failure.
		_ = c.cache.Set(ctx, cacheKey, hasPerm, permissionCacheTTL)
	}

	return hasPerm, nil
}

// AvailableActions returns the actions the user may perform on the resource,
// in the canonical order of Actions.
func (c *Checker) AvailableActions(ctx context.Context, user *User, resource string) ([]string, error) {
	available := make([]string, 0, len(Actions))
	for _, action := range Actions {
		ok, err := c.HasPermission(ctx, user, resource, action)
		if err != nil {
			return nil, err
		}
		if ok {
			available = append(available, action)
		}
	}
	return available, nil
}

// ResourcePermissions returns every permission defined for the resource that
// the user holds. Superusers get all of the resource's permissions.
func (c *Checker) ResourcePermissions(ctx context.Context, user *User, resource string) ([]Permission, error) {
	if user == nil {
		return nil, nil
	}

	var perms []Permission
	q := c.db.WithContext(ctx).Model(&Permission{}).Where("permissions.resource = ?", resource)
	if !user.IsSuperuser {
		q = q.
			Joins("JOIN group_permissions ON group_permissions.permission_id = permissions.id").
			Joins("JOIN user_groups ON user_groups.group_id = group_permissions.group_id").
			Where("user_groups.user_id = ?", user.ID)
	}
	if err := q.Find(&perms).Error; err != nil {
		return nil, apperror.New(apperror.CodeInternal, "permission lookup failed", err)
	}
	return perms, nil
}
