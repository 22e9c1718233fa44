// Package model provides the composable GORM field groups (timestamps, audit
// fields, soft delete) shared by all downstream application models, plus the
// soft-delete aware query manager.
//
// The field groups are independent structs embedded explicitly, so a model
// opts into exactly the behavior it needs:
//
//	type Medicine struct {
//		ID uint `gorm:"primaryKey"`
//		model.TimestampMixin
//		model.AuditMixin
//		model.SoftDeleteMixin
//		Name string
//	}
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimestampMixin adds creation and modification timestamps maintained by GORM.
type TimestampMixin struct {
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// AuditMixin records which user created and last updated the row.
// The references are plain IDs; resolving them to user rows is left to the
// consuming application.
type AuditMixin struct {
	CreatedByID *uint `gorm:"index" json:"created_by"`
	UpdatedByID *uint `json:"updated_by"`
}

// SetCreatedBy records the creating actor. Implements serializer.Auditable.
func (m *AuditMixin) SetCreatedBy(id uint) {
	m.CreatedByID = &id
}

// SetUpdatedBy records the updating actor. Implements serializer.Auditable.
func (m *AuditMixin) SetUpdatedBy(id uint) {
	m.UpdatedByID = &id
}

// UUIDMixin adds a generated, unique external identifier alongside the
// numeric primary key.
type UUIDMixin struct {
	UUID string `gorm:"size:36;uniqueIndex" json:"uuid"`
}

// BeforeCreate populates the UUID when the row is first inserted.
func (m *UUIDMixin) BeforeCreate(_ *gorm.DB) error {
	if m.UUID == "" {
		m.UUID = uuid.NewString()
	}
	return nil
}

// SoftDeleteMixin marks rows as deleted instead of removing them, recording
// who deleted or restored the row and when. GORM's implicit DeletedAt
// handling is deliberately not used: filtering is explicit through the
// Alive/Dead scopes and the Manager.
type SoftDeleteMixin struct {
	IsDeleted    bool       `gorm:"default:false;index" json:"is_deleted"`
	DeletedAt    *time.Time `json:"deleted_at"`
	DeletedByID  *uint      `json:"deleted_by"`
	RestoredAt   *time.Time `json:"restored_at"`
	RestoredByID *uint      `json:"restored_by"`
}

// MarkDeleted sets the deletion flag and metadata. It does not persist;
// callers save through SoftDelete or their own transaction.
func (m *SoftDeleteMixin) MarkDeleted(actorID *uint, at time.Time) {
	m.IsDeleted = true
	m.DeletedAt = &at
	if actorID != nil {
		m.DeletedByID = actorID
	}
}

// MarkRestored clears the deletion flag and records the restoration.
func (m *SoftDeleteMixin) MarkRestored(actorID *uint, at time.Time) {
	m.IsDeleted = false
	m.RestoredAt = &at
	if actorID != nil {
		m.RestoredByID = actorID
	}
}

// SoftDeletable is satisfied by any model embedding SoftDeleteMixin.
type SoftDeletable interface {
	MarkDeleted(actorID *uint, at time.Time)
	MarkRestored(actorID *uint, at time.Time)
}

var _ SoftDeletable = (*SoftDeleteMixin)(nil)
