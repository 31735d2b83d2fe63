package session

import (
	"fmt"
	"log"
	"strings"
)

const commandPrefix = "/"

// Run drives the session from identification to close. It blocks until
// the client disconnects, sends /exit, or the connection fails; cleanup
// runs exactly once on every exit path.
func (s *Session) Run() {
	defer s.close()

	go s.handleWrite()

	s.sendToSelf("[Server] Enter your nickname:")
	nick, err := s.conn.ReadLine()
	if err != nil {
		log.Printf("Session %s disconnected before identifying: %v", s.ID, err)
		return
	}
	s.Nick = nick
	s.sendToSelf(fmt.Sprintf("[Server] Welcome to the chat, %s. Type /help for commands.", s.Nick))
	log.Printf("Session %s identified as %q", s.ID, s.Nick)

	for {
		line, err := s.conn.ReadLine()
		if err != nil {
			log.Printf("Session %s read error: %v", s.ID, err)
			return
		}

		if strings.HasPrefix(line, commandPrefix) {
			if quit := s.handleCommand(strings.TrimPrefix(line, commandPrefix)); quit {
				return
			}
			continue
		}

		s.relay(line)
	}
}

// handleCommand runs one parsed command and reports whether the session
// should terminate.
func (s *Session) handleCommand(command string) bool {
	switch {
	case command == "help":
		s.sendHelp()
	case command == "rooms":
		s.sendToSelf("[Server] Available rooms:")
		s.sendRoomList()
	case command == "exit":
		return true
	case strings.HasPrefix(command, "join "):
		s.join(strings.TrimPrefix(command, "join "))
	case command == "join":
		s.sendToSelf("[Server] Usage: /join <room>")
	default:
		s.sendToSelf(fmt.Sprintf("[Server] Unknown command: /%s", command))
		s.sendHelp()
	}
	return false
}

// join moves the session into the named room. The room must already be
// known to the registry; the registry's own lazy creation is deliberately
// not reachable from the chat protocol.
func (s *Session) join(name string) {
	if !s.registry.Exists(name) {
		s.sendToSelf(fmt.Sprintf("[Server] Room %q not found. Available rooms:", name))
		s.sendRoomList()
		return
	}

	if s.room != "" {
		s.registry.RemoveMember(s.room, s)
		s.announce(s.room, fmt.Sprintf("[Server] %s has left %s.", s.Nick, s.room))
	}

	s.registry.AddMember(name, s)
	s.room = name
	s.sendToSelf(fmt.Sprintf("[Server] You joined %s.", name))
	s.announce(name, fmt.Sprintf("[Server] %s has joined %s.", s.Nick, name))
}

// relay broadcasts a chat line to the current room and echoes it back to
// the sender. Lines sent before joining any room are dropped.
func (s *Session) relay(message string) {
	if s.room == "" {
		log.Printf("Session %s sent a message while unjoined; dropping", s.ID)
		return
	}

	line := fmt.Sprintf("%s: %s", s.Nick, message)
	s.sendToSelf(line)
	s.sendToRoom(line)
	s.recorder.Record(fmt.Sprintf("[%s] %s", s.room, line))
}

func (s *Session) sendHelp() {
	s.sendToSelf("[Server] Available commands:")
	s.sendToSelf("[Server]   /help          show this help")
	s.sendToSelf("[Server]   /rooms         list available rooms")
	s.sendToSelf("[Server]   /join <room>   join a room")
	s.sendToSelf("[Server]   /exit          leave the chat")
}

func (s *Session) sendRoomList() {
	for _, name := range s.registry.ListNames() {
		s.sendToSelf("   " + name)
	}
}

// announce broadcasts a system line to a room and records it.
func (s *Session) announce(room, line string) {
	s.registry.Broadcast(room, line, s)
	s.recorder.Record(fmt.Sprintf("[%s] %s", room, line))
}

// sendToSelf queues one line for this client. If the outbound queue is
// unavailable the line is dropped with a local diagnostic.
func (s *Session) sendToSelf(line string) {
	if !s.Deliver(line) {
		log.Printf("Session %s outbound queue unavailable; dropping line", s.ID)
	}
}

// sendToRoom broadcasts one line to the current room, excluding this
// session.
func (s *Session) sendToRoom(line string) {
	s.registry.Broadcast(s.room, line, s)
}

// Deliver implements registry.Member. It never blocks: when the session
// is closing or its queue is full the line is refused.
func (s *Session) Deliver(line string) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.outbound <- line:
		return true
	default:
		return false
	}
}

// handleWrite is the session's single writer: every line reaching the
// client goes through here, so concurrent broadcasts can never interleave
// partial lines.
func (s *Session) handleWrite() {
	for {
		select {
		case <-s.done:
			return
		case line := <-s.outbound:
			if err := s.conn.WriteLine(line); err != nil {
				log.Printf("Error writing to session %s: %v", s.ID, err)
				// Closing the connection unblocks the read loop, which
				// runs the cleanup.
				s.conn.Close()
				return
			}
		}
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		if s.room != "" {
			s.registry.RemoveMember(s.room, s)
			s.announce(s.room, fmt.Sprintf("[Server] %s has left the chat.", s.Nick))
			s.room = ""
		}
		close(s.done)
		s.conn.Close()
		log.Printf("Session %s closed", s.ID)
	})
}
