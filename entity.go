package corgi

// Entity is an identity with no inherent data. Component data attached to
// an entity lives inside the owning Component's pool; the entity itself
// only carries its internal ID and a deletion mark.
type Entity struct {
	id                EntityID
	markedForDeletion bool
}

// ID returns the entity's internal ID, used as the key in component index
// maps. Library users should normally hold an EntityRef instead.
func (e *Entity) ID() EntityID {
	return e.id
}

// MarkedForDeletion reports whether the entity is queued for removal by the
// next DeleteMarkedEntities call.
func (e *Entity) MarkedForDeletion() bool {
	return e.markedForDeletion
}

// EntityRef is the primary way to refer to an entity. It behaves like a
// pointer to the Entity but can be checked for staleness: once the entity
// is deleted, the ref reports invalid even if its pool slot has since been
// reused for a new entity.
type EntityRef = Ref[Entity]
