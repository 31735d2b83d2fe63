package registry

// Member is the registry's view of a joined session: only the capability
// to receive one line. Deliver must not block; it reports false when the
// line was not accepted (queue full or session closing), which the
// registry logs and otherwise ignores - the member's own session detects
// a dead connection and cleans itself up.
type Member interface {
	Deliver(line string) bool
}
