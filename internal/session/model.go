package session

import (
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/CisoUnlimited/Super-Chat/internal/archive"
	"github.com/CisoUnlimited/Super-Chat/internal/registry"
	"github.com/CisoUnlimited/Super-Chat/internal/transport"
)

const outboundQueueSize = 64

// Session is the server-side state bound to one connected client. It owns
// the connection and the nickname; the registry only ever sees it through
// its Deliver method while it is joined to a room.
type Session struct {
	ID   string
	Nick string

	conn     transport.LineConn
	registry *registry.Registry
	recorder archive.Recorder

	room      string
	outbound  chan string
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a session for a freshly accepted connection. Until the
// client identifies itself the nickname is a placeholder derived from the
// connection's remote port.
func New(conn transport.LineConn, reg *registry.Registry, rec archive.Recorder) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Nick:     anonNick(conn.RemoteAddr()),
		conn:     conn,
		registry: reg,
		recorder: rec,
		outbound: make(chan string, outboundQueueSize),
		done:     make(chan struct{}),
	}
}

func anonNick(addr net.Addr) string {
	if addr != nil {
		if _, port, err := net.SplitHostPort(addr.String()); err == nil {
			return "Anon#" + port
		}
	}
	return fmt.Sprintf("Anon#%s", uuid.NewString()[:8])
}
