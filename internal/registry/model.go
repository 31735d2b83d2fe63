package registry

import "sync"

// Registry maps room names to rooms. Shared by every session for the
// lifetime of the process; rooms are never destroyed once created.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

// room holds the member set of one named room. Each room carries its own
// lock so membership changes in one room never block broadcasts in another.
type room struct {
	name    string
	mu      sync.RWMutex
	members map[Member]bool
}

func newRoom(name string) *room {
	return &room{
		name:    name,
		members: make(map[Member]bool),
	}
}
