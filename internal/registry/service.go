package registry

import (
	"log"
	"sort"
)

// New creates a Registry seeded with the given default rooms. Default
// rooms exist from before the first connection is accepted and show up
// in ListNames even with zero members.
func New(defaultRooms ...string) *Registry {
	registry := &Registry{
		rooms: make(map[string]*room),
	}
	for _, name := range defaultRooms {
		registry.rooms[name] = newRoom(name)
	}
	return registry
}

// Exists reports whether a room with the given name is known. Names are
// case-sensitive.
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[name]
	return ok
}

// ListNames returns a sorted copy of all room names.
func (r *Registry) ListNames() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.rooms))
	for name := range r.rooms {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

// MemberCount returns the number of members currently joined to the named
// room, or zero if the room does not exist.
func (r *Registry) MemberCount(name string) int {
	r.mu.RLock()
	target, ok := r.rooms[name]
	r.mu.RUnlock()
	if !ok {
		return 0
	}

	target.mu.RLock()
	defer target.mu.RUnlock()
	return len(target.members)
}

// AddMember joins a member to the named room, creating the room if it
// does not exist yet. The "room must already exist" rule seen by chat
// clients is enforced by the session layer; the registry itself stays
// permissive so callers that want lazy rooms can have them.
func (r *Registry) AddMember(name string, member Member) {
	r.mu.Lock()
	target, ok := r.rooms[name]
	if !ok {
		target = newRoom(name)
		r.rooms[name] = target
	}
	r.mu.Unlock()

	target.mu.Lock()
	target.members[member] = true
	target.mu.Unlock()
}

// RemoveMember removes a member from the named room. Removing a member
// that is not joined, or from a room that does not exist, is a no-op.
func (r *Registry) RemoveMember(name string, member Member) {
	r.mu.RLock()
	target, ok := r.rooms[name]
	r.mu.RUnlock()
	if !ok {
		return
	}

	target.mu.Lock()
	delete(target.members, member)
	target.mu.Unlock()
}

// Broadcast delivers line to every current member of the named room
// except excluding. Unknown rooms are skipped silently. A member that
// refuses the line does not stop delivery to the rest.
func (r *Registry) Broadcast(name, line string, excluding Member) {
	r.mu.RLock()
	target, ok := r.rooms[name]
	r.mu.RUnlock()
	if !ok {
		return
	}

	target.mu.RLock()
	defer target.mu.RUnlock()

	for member := range target.members {
		if member == excluding {
			continue
		}
		if !member.Deliver(line) {
			log.Printf("Dropped line for a member of room %s", name)
		}
	}
}
