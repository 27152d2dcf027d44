package corgi

import "math"

// ComponentID identifies a registered component. IDs are assigned at
// registration time and equal the component's position in the manager's
// registry, which is also its position in the per-frame update order.
type ComponentID uint16

// InvalidComponentID is the sentinel for "no component".
const InvalidComponentID ComponentID = math.MaxUint16

// ComponentIndex locates a piece of component data inside a component's
// pool.
type ComponentIndex uint16

// InvalidComponentIndex is the sentinel for "entity has no data here".
const InvalidComponentIndex ComponentIndex = math.MaxUint16

// EntityID uniquely identifies an entity inside internal structures such as
// component index maps. Library users should refer to entities through
// EntityRef values instead.
type EntityID uint16

// InvalidEntityID is the sentinel for an uninitialized or null entity ID.
const InvalidEntityID EntityID = math.MaxUint16

// WorldTime is the frame delta handed to component updates, in
// milliseconds.
type WorldTime int

// MillisecondsPerSecond converts WorldTime deltas to seconds.
const MillisecondsPerSecond = 1000
