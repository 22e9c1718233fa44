// Package users carries the user, group, and permission models shared by the
// downstream applications, and the permission checking built on them.
package users

import (
	"gorm.io/gorm"

	"github.com/shree-dhimal/commoncore/model"
)

// User is an account that can authenticate and hold group memberships.
// Superusers bypass all permission checks.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`
	model.TimestampMixin
	Name         string  `gorm:"size:100;not null" json:"name"`
	Email        string  `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"size:255" json:"-"`
	IsSuperuser  bool    `gorm:"default:false" json:"is_superuser"`
	Groups       []Group `gorm:"many2many:user_groups" json:"groups,omitempty"`
}

// Group is a named collection of permissions assigned to users.
type Group struct {
	ID uint `gorm:"primaryKey" json:"id"`
	model.TimestampMixin
	Name        string       `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Permissions []Permission `gorm:"many2many:group_permissions" json:"permissions,omitempty"`
}

// Permission grants one action on one resource. Codename follows the
// "<action>_<resource>" convention, e.g. "view_medicine".
type Permission struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Codename string `gorm:"size:150;uniqueIndex;not null" json:"codename"`
	Name     string `gorm:"size:255" json:"name"`
	Resource string `gorm:"size:100;index" json:"resource"`
}

// Migrate creates the user, group, and permission tables plus their join
// tables. Intended for application startup in debug mode and for tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Group{}, &Permission{})
}
