package serializer

// Auditable is the surface a model exposes for audit population.
// model.AuditMixin satisfies it.
type Auditable interface {
	SetCreatedBy(id uint)
	SetUpdatedBy(id uint)
}

// ApplyAudit records the acting user on obj. On creation both audit fields
// are set; on update only the updater. The actor is passed explicitly by the
// caller; there is no ambient request-context lookup.
func ApplyAudit(obj Auditable, actorID uint, created bool) {
	if created {
		obj.SetCreatedBy(actorID)
	}
	obj.SetUpdatedBy(actorID)
}
