package model

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// note is a test model combining all field groups.
type note struct {
	ID uint `gorm:"primaryKey"`
	TimestampMixin
	AuditMixin
	UUIDMixin
	SoftDeleteMixin
	Title string
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&note{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestTimestampMixin_PopulatedOnCreate(t *testing.T) {
	db := setupTestDB(t)

	n := &note{Title: "first"}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n.CreatedAt.IsZero() || n.UpdatedAt.IsZero() {
		t.Errorf("timestamps not populated: created=%v updated=%v", n.CreatedAt, n.UpdatedAt)
	}
}

func TestUUIDMixin_PopulatedOnCreate(t *testing.T) {
	db := setupTestDB(t)

	n := &note{Title: "first"}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(n.UUID) != 36 {
		t.Errorf("UUID=%q; want 36-char uuid", n.UUID)
	}

	other := &note{Title: "second"}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("Create: %v", err)
	}
	if other.UUID == n.UUID {
		t.Error("UUIDs of two rows must differ")
	}
}

func TestUUIDMixin_PresetKept(t *testing.T) {
	db := setupTestDB(t)

	n := &note{Title: "preset", UUIDMixin: UUIDMixin{UUID: "11111111-2222-3333-4444-555555555555"}}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n.UUID != "11111111-2222-3333-4444-555555555555" {
		t.Errorf("preset UUID was overwritten: %q", n.UUID)
	}
}

func TestAuditMixin_Setters(t *testing.T) {
	var m AuditMixin
	m.SetCreatedBy(7)
	m.SetUpdatedBy(9)

	if m.CreatedByID == nil || *m.CreatedByID != 7 {
		t.Errorf("CreatedByID=%v; want 7", m.CreatedByID)
	}
	if m.UpdatedByID == nil || *m.UpdatedByID != 9 {
		t.Errorf("UpdatedByID=%v; want 9", m.UpdatedByID)
	}
}

func TestSoftDelete_FlagsAndFiltering(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	n := &note{Title: "to delete"}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("Create: %v", err)
	}
	keep := &note{Title: "to keep"}
	if err := db.Create(keep).Error; err != nil {
		t.Fatalf("Create: %v", err)
	}

	actor := uint(3)
	if err := SoftDelete(ctx, db, n, &actor); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	if !n.IsDeleted {
		t.Error("IsDeleted not set")
	}
	if n.DeletedAt == nil {
		t.Error("DeletedAt not set")
	}
	if n.DeletedByID == nil || *n.DeletedByID != 3 {
		t.Errorf("DeletedByID=%v; want 3", n.DeletedByID)
	}

	mgr := NewManager(db, &note{})

	var alive []note
	if err := mgr.Query(ctx).Find(&alive).Error; err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(alive) != 1 || alive[0].Title != "to keep" {
		t.Errorf("default query returned %d rows; want only the live row", len(alive))
	}

	var all []note
	if err := mgr.WithDeleted(ctx).Find(&all).Error; err != nil {
		t.Fatalf("WithDeleted: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("WithDeleted returned %d rows; want 2", len(all))
	}

	var dead []note
	if err := mgr.Deleted(ctx).Find(&dead).Error; err != nil {
		t.Fatalf("Deleted: %v", err)
	}
	if len(dead) != 1 || dead[0].Title != "to delete" {
		t.Errorf("Deleted returned %d rows; want only the deleted row", len(dead))
	}
}

func TestRestore(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	n := &note{Title: "cycle"}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := SoftDelete(ctx, db, n, nil); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	actor := uint(5)
	if err := Restore(ctx, db, n, &actor); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if n.IsDeleted {
		t.Error("IsDeleted still set after restore")
	}
	if n.RestoredAt == nil {
		t.Error("RestoredAt not set")
	}
	if n.RestoredByID == nil || *n.RestoredByID != 5 {
		t.Errorf("RestoredByID=%v; want 5", n.RestoredByID)
	}

	var alive []note
	if err := NewManager(db, &note{}).Query(ctx).Find(&alive).Error; err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(alive) != 1 {
		t.Errorf("restored row missing from default query: %d rows", len(alive))
	}
}

func TestHardDelete(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	n := &note{Title: "gone for good"}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := HardDelete(ctx, db, n); err != nil {
		t.Fatalf("HardDelete: %v", err)
	}

	var count int64
	if err := NewManager(db, &note{}).WithDeleted(ctx).Count(&count).Error; err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("count=%d; want 0 after hard delete", count)
	}
}

func TestMarkDeleted_NilActor(t *testing.T) {
	var m SoftDeleteMixin
	m.MarkDeleted(nil, time.Now())
	if !m.IsDeleted || m.DeletedAt == nil {
		t.Error("flags not set")
	}
	if m.DeletedByID != nil {
		t.Error("DeletedByID should stay nil without an actor")
	}
}
