package model

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Alive is a GORM scope that excludes soft-deleted rows.
func Alive(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// Dead is a GORM scope that returns only soft-deleted rows.
func Dead(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", true)
}

// Manager issues queries for a soft-deletable model. The default query
// excludes deleted rows; WithDeleted gives the unfiltered view.
type Manager struct {
	db    *gorm.DB
	model any
}

// NewManager creates a Manager for the given model. model must be a pointer
// to the model struct, e.g. NewManager(db, &Medicine{}).
func NewManager(db *gorm.DB, model any) *Manager {
	return &Manager{db: db, model: model}
}

// Query returns a query over live rows only.
func (m *Manager) Query(ctx context.Context) *gorm.DB {
	return m.db.WithContext(ctx).Model(m.model).Scopes(Alive)
}

// WithDeleted returns a query over all rows, including soft-deleted ones.
func (m *Manager) WithDeleted(ctx context.Context) *gorm.DB {
	return m.db.WithContext(ctx).Model(m.model)
}

// Deleted returns a query over soft-deleted rows only.
func (m *Manager) Deleted(ctx context.Context) *gorm.DB {
	return m.db.WithContext(ctx).Model(m.model).Scopes(Dead)
}

// SoftDelete marks obj as deleted on behalf of actorID and persists the
// change. The row stays in the table and is excluded from default queries.
func SoftDelete(ctx context.Context, db *gorm.DB, obj SoftDeletable, actorID *uint) error {
	obj.MarkDeleted(actorID, time.Now())
	return db.WithContext(ctx).Save(obj).Error
}

// Restore clears the deletion mark on obj and persists the change.
func Restore(ctx context.Context, db *gorm.DB, obj SoftDeletable, actorID *uint) error {
	obj.MarkRestored(actorID, time.Now())
	return db.WithContext(ctx).Save(obj).Error
}

// HardDelete permanently removes the row backing obj.
func HardDelete(ctx context.Context, db *gorm.DB, obj any) error {
	return db.WithContext(ctx).Delete(obj).Error
}
