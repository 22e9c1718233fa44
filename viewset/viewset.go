// Package viewset provides a generic CRUD endpoint set over a GORM model:
// list, retrieve, create, update, and delete handlers that shape every
// response through the standard envelope, exclude soft-deleted rows, populate
// audit fields, and attach the requesting user's permission actions.
package viewset

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shree-dhimal/commoncore/apperror"
	"github.com/shree-dhimal/commoncore/model"
	"github.com/shree-dhimal/commoncore/pagination"
	"github.com/shree-dhimal/commoncore/response"
	"github.com/shree-dhimal/commoncore/serializer"
	"github.com/shree-dhimal/commoncore/users"
)

// ActorFunc resolves the acting user from the request. The default reads the
// user stored by the application's authentication middleware.
type ActorFunc func(c *gin.Context) (*users.User, bool)

// ViewSet serves CRUD endpoints for the model T. T is addressed by a uint
// primary key named ID. Optional behavior is detected from the model itself:
// soft deletion when T embeds model.SoftDeleteMixin, audit population when T
// embeds model.AuditMixin.
type ViewSet[T any] struct {
	db            *gorm.DB
	resource      string
	checker       *users.Checker
	actor         ActorFunc
	allowedSort   []string
	allowedFilter []string
	softDeletable bool
}

// Option configures a ViewSet.
type Option[T any] func(*ViewSet[T])

// WithChecker attaches a permission checker; list and retrieve responses then
// carry the user's available actions for the resource. Route-level
// enforcement stays with users.RequirePermission.
func WithChecker[T any](checker *users.Checker) Option[T] {
	return func(v *ViewSet[T]) { v.checker = checker }
}

// WithActor overrides how the acting user is resolved from a request.
func WithActor[T any](fn ActorFunc) Option[T] {
	return func(v *ViewSet[T]) { v.actor = fn }
}

// WithSortFields sets the field names accepted by the list sort parameter.
func WithSortFields[T any](fields ...string) Option[T] {
	return func(v *ViewSet[T]) { v.allowedSort = fields }
}

// WithFilterFields sets the field names accepted as list filters.
func WithFilterFields[T any](fields ...string) Option[T] {
	return func(v *ViewSet[T]) { v.allowedFilter = fields }
}

// New creates a ViewSet for T. resource names the model in messages and
// permission codenames, e.g. "medicine".
func New[T any](db *gorm.DB, resource string, opts ...Option[T]) *ViewSet[T] {
	if db == nil {
		panic("viewset.New: db must not be nil")
	}
	if strings.TrimSpace(resource) == "" {
		panic("viewset.New: resource must not be empty")
	}

	var probe T
	_, softDeletable := any(&probe).(model.SoftDeletable)

	v := &ViewSet[T]{
		db:            db,
		resource:      resource,
		actor:         users.CurrentUser,
		softDeletable: softDeletable,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Register mounts the CRUD routes under path on the given router group.
func (v *ViewSet[T]) Register(rg *gin.RouterGroup, path string) {
	rg.GET(path, v.List)
	rg.POST(path, v.Create)
	rg.GET(path+"/:id", v.Retrieve)
	rg.PUT(path+"/:id", v.Update)
	rg.PATCH(path+"/:id", v.Update)
	rg.DELETE(path+"/:id", v.Delete)
}

// List handles GET /<path>: paginated, sorted, filtered, soft-delete aware.
func (v *ViewSet[T]) List(c *gin.Context) {
	req := pagination.ParsePageRequest(c)
	ctx := c.Request.Context()

	base := v.db.WithContext(ctx).Model(new(T)).
		Scopes(pagination.Filter(req, v.allowedFilter))
	if v.softDeletable {
		base = base.Scopes(model.Alive)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		response.Exception(c, mapError(err))
		return
	}

	var items []T
	if err := base.Scopes(
		pagination.Paginate(req),
		pagination.Sort(req, v.allowedSort),
	).Find(&items).Error; err != nil {
		response.Exception(c, mapError(err))
		return
	}
	if items == nil {
		items = []T{}
	}

	response.Paginated(c, items, pagination.NewMeta(total, req), v.actions(c))
}

// Retrieve handles GET /<path>/:id.
func (v *ViewSet[T]) Retrieve(c *gin.Context) {
	id, ok := v.parseID(c)
	if !ok {
		return
	}

	obj, err := v.get(c, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithActions(c, obj, v.actions(c))
}

// Create handles POST /<path>: binds the body into a new T, populates audit
// fields from the acting user, and persists it.
func (v *ViewSet[T]) Create(c *gin.Context) {
	obj := new(T)
	if !response.BindAndValidate(c, obj) {
		return
	}

	// The primary key and server-managed field groups are read-only from the
	// request body.
	setID(obj, 0)
	clearManagedFields(obj)

	if auditable, ok := any(obj).(serializer.Auditable); ok {
		if actor, found := v.actor(c); found {
			serializer.ApplyAudit(auditable, actor.ID, true)
		}
	}

	if err := v.db.WithContext(c.Request.Context()).Create(obj).Error; err != nil {
		response.Error(c, mapError(err))
		return
	}

	response.Created(c, v.resource+" created successfully", obj)
}

// Update handles PUT and PATCH /<path>/:id: loads the live row, binds the
// body over it, and saves.
func (v *ViewSet[T]) Update(c *gin.Context) {
	id, ok := v.parseID(c)
	if !ok {
		return
	}

	obj, err := v.get(c, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	loaded := *obj
	if !response.BindAndValidate(c, obj) {
		return
	}

	// The body must not re-key the row the URL names, nor touch the
	// server-managed field groups.
	setID(obj, id)
	restoreManagedFields(obj, &loaded)

	if auditable, ok := any(obj).(serializer.Auditable); ok {
		if actor, found := v.actor(c); found {
			serializer.ApplyAudit(auditable, actor.ID, false)
		}
	}

	if err := v.db.WithContext(c.Request.Context()).Save(obj).Error; err != nil {
		response.Error(c, mapError(err))
		return
	}

	response.SuccessMessage(c, v.resource+" updated successfully", obj)
}

// Delete handles DELETE /<path>/:id. Models embedding model.SoftDeleteMixin
// are soft-deleted with the acting user recorded; everything else is removed
// from the table.
func (v *ViewSet[T]) Delete(c *gin.Context) {
	id, ok := v.parseID(c)
	if !ok {
		return
	}

	obj, err := v.get(c, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if sd, isSoft := any(obj).(model.SoftDeletable); isSoft {
		var actorID *uint
		if actor, found := v.actor(c); found {
			actorID = &actor.ID
		}
		if err := model.SoftDelete(ctx, v.db, sd, actorID); err != nil {
			response.Error(c, mapError(err))
			return
		}
	} else {
		if err := model.HardDelete(ctx, v.db, obj); err != nil {
			response.Error(c, mapError(err))
			return
		}
	}

	response.SuccessMessage(c, v.resource+" deleted successfully", nil)
}

// get loads the row with the given id, applying the soft-delete filter.
func (v *ViewSet[T]) get(c *gin.Context, id uint) (*T, error) {
	obj := new(T)
	q := v.db.WithContext(c.Request.Context())
	if v.softDeletable {
		q = q.Scopes(model.Alive)
	}
	if err := q.First(obj, id).Error; err != nil {
		return nil, mapError(err)
	}
	return obj, nil
}

// parseID extracts the :id path parameter, responding with a validation
// envelope on bad input.
func (v *ViewSet[T]) parseID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.Error(c, apperror.New(apperror.CodeValidation, "invalid id", err))
		return 0, false
	}
	return uint(id), true
}

// actions returns the acting user's available actions on the resource, or
// nil when no checker is configured or no user is present. Lookup errors are
// swallowed: actions are advisory, not enforcement.
func (v *ViewSet[T]) actions(c *gin.Context) []string {
	if v.checker == nil {
		return nil
	}
	actor, ok := v.actor(c)
	if !ok {
		return nil
	}
	actions, err := v.checker.AvailableActions(c.Request.Context(), actor, v.resource)
	if err != nil {
		return nil
	}
	return actions
}

// managedMixins names the embedded field groups whose values are maintained
// by the server, never by the request body: timestamps, audit actors, uuid,
// and soft-delete state.
var managedMixins = []string{
	"TimestampMixin",
	"AuditMixin",
	"UUIDMixin",
	"SoftDeleteMixin",
}

// setID writes the primary key on obj. Models served by a ViewSet carry a
// uint primary key named ID.
func setID[T any](obj *T, id uint) {
	f := reflect.ValueOf(obj).Elem().FieldByName("ID")
	if f.IsValid() && f.CanSet() && f.Kind() == reflect.Uint {
		f.SetUint(uint64(id))
	}
}

// clearManagedFields zeroes the server-managed field groups on obj,
// discarding anything the request body put there.
func clearManagedFields[T any](obj *T) {
	v := reflect.ValueOf(obj).Elem()
	for _, name := range managedMixins {
		f := v.FieldByName(name)
		if f.IsValid() && f.CanSet() {
			f.Set(reflect.Zero(f.Type()))
		}
	}
}

// restoreManagedFields copies the server-managed field groups from the
// loaded row back onto obj after binding.
func restoreManagedFields[T any](obj, loaded *T) {
	dst := reflect.ValueOf(obj).Elem()
	src := reflect.ValueOf(loaded).Elem()
	for _, name := range managedMixins {
		f := dst.FieldByName(name)
		if f.IsValid() && f.CanSet() {
			f.Set(src.FieldByName(name))
		}
	}
}

// mapError converts GORM errors to application errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
		return apperror.New(apperror.CodeAlreadyExists, "already exists", err)
	}
	return apperror.New(apperror.CodeInternal, "database error", err)
}

// isDuplicateKeyError detects unique constraint violations by examining the
// error message. Not all GORM dialectors translate driver-level errors to
// gorm.ErrDuplicatedKey (the pure-Go SQLite driver among them).
func isDuplicateKeyError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
