package session

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/CisoUnlimited/Super-Chat/internal/archive"
	"github.com/CisoUnlimited/Super-Chat/internal/registry"
	"github.com/CisoUnlimited/Super-Chat/internal/transport"
)

var defaultRooms = []string{"general", "PSPRO", "DEINT", "PMDMO", "ACDAT"}

// sortedRooms is the listing order clients observe.
var sortedRooms = []string{"ACDAT", "DEINT", "PMDMO", "PSPRO", "general"}

type testClient struct {
	t       *testing.T
	session *Session
	conn    net.Conn
	reader  *bufio.Reader
	done    chan struct{}
}

func dialSession(t *testing.T, reg *registry.Registry) *testClient {
	t.Helper()

	serverConn, clientConn := net.Pipe()
	s := New(transport.NewNetLineConn(serverConn), reg, archive.Nop{})

	done := make(chan struct{})
	go func() {
		s.Run()
		close(done)
	}()

	client := &testClient{
		t:       t,
		session: s,
		conn:    clientConn,
		reader:  bufio.NewReader(clientConn),
		done:    done,
	}
	t.Cleanup(func() { clientConn.Close() })
	return client
}

func (c *testClient) send(line string) {
	c.t.Helper()
	c.conn.SetWriteDeadline(time.Now().Add(time.Second))
	if _, err := c.conn.Write([]byte(line + "\n")); err != nil {
		c.t.Fatalf("Failed to write %q: %v", line, err)
	}
}

func (c *testClient) readLine() string {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(time.Second))
	line, err := c.reader.ReadString('\n')
	if err != nil {
		c.t.Fatalf("Failed to read line: %v", err)
	}
	return strings.TrimRight(line, "\n")
}

func (c *testClient) expect(want string) {
	c.t.Helper()
	if got := c.readLine(); got != want {
		c.t.Errorf("Expected %q, got %q", want, got)
	}
}

func (c *testClient) expectSilence() {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
	if line, err := c.reader.ReadString('\n'); err == nil {
		c.t.Errorf("Expected no line, got %q", line)
	}
}

func (c *testClient) identify(nick string) {
	c.t.Helper()
	c.expect("[Server] Enter your nickname:")
	c.send(nick)
	c.expect("[Server] Welcome to the chat, " + nick + ". Type /help for commands.")
}

func (c *testClient) join(room string) {
	c.t.Helper()
	c.send("/join " + room)
	c.expect("[Server] You joined " + room + ".")
}

func (c *testClient) expectClosed() {
	c.t.Helper()
	select {
	case <-c.done:
	case <-time.After(time.Second):
		c.t.Error("Session did not close")
	}
}

func TestSession_Identify(t *testing.T) {
	reg := registry.New(defaultRooms...)
	client := dialSession(t, reg)

	client.identify("Alice")
}

func TestSession_PlaceholderNickname(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	s := New(transport.NewNetLineConn(serverConn), reg(t), archive.Nop{})
	if !strings.HasPrefix(s.Nick, "Anon#") {
		t.Errorf("Expected placeholder nickname, got %q", s.Nick)
	}
	if s.ID == "" {
		t.Error("Expected a session ID")
	}
}

func reg(t *testing.T) *registry.Registry {
	t.Helper()
	return registry.New(defaultRooms...)
}

func TestSession_RoomsCommand(t *testing.T) {
	client := dialSession(t, reg(t))
	client.identify("Alice")

	client.send("/rooms")
	client.expect("[Server] Available rooms:")
	for _, name := range sortedRooms {
		client.expect("   " + name)
	}
}

func TestSession_JoinUnknownRoom(t *testing.T) {
	registry := reg(t)
	client := dialSession(t, registry)
	client.identify("Alice")

	client.send("/join nosuchroom")
	client.expect("[Server] Room \"nosuchroom\" not found. Available rooms:")
	for _, name := range sortedRooms {
		client.expect("   " + name)
	}

	// Membership unchanged: a chat line is still silently dropped.
	client.send("hello?")
	client.expectSilence()

	for _, name := range defaultRooms {
		if count := registry.MemberCount(name); count != 0 {
			t.Errorf("Expected 0 members in %s, got %d", name, count)
		}
	}
}

func TestSession_UnjoinedMessageDropped(t *testing.T) {
	client := dialSession(t, reg(t))
	client.identify("Alice")

	client.send("anyone there?")
	client.expectSilence()
}

func TestSession_JoinAndRelay(t *testing.T) {
	registry := reg(t)

	alice := dialSession(t, registry)
	alice.identify("Alice")
	alice.join("general")

	bob := dialSession(t, registry)
	bob.identify("Bob")
	bob.join("general")
	alice.expect("[Server] Bob has joined general.")

	alice.send("hi")
	alice.expect("Alice: hi")
	bob.expect("Alice: hi")
	bob.expectSilence()

	if count := registry.MemberCount("general"); count != 2 {
		t.Errorf("Expected 2 members in general, got %d", count)
	}
}

func TestSession_SwitchRooms(t *testing.T) {
	registry := reg(t)

	alice := dialSession(t, registry)
	alice.identify("Alice")
	alice.join("general")

	bob := dialSession(t, registry)
	bob.identify("Bob")
	bob.join("general")
	alice.expect("[Server] Bob has joined general.")

	bob.join("PSPRO")
	alice.expect("[Server] Bob has left general.")

	if count := registry.MemberCount("general"); count != 1 {
		t.Errorf("Expected 1 member in general, got %d", count)
	}
	if count := registry.MemberCount("PSPRO"); count != 1 {
		t.Errorf("Expected 1 member in PSPRO, got %d", count)
	}

	// Messages in the old room no longer reach Bob.
	alice.send("still here")
	alice.expect("Alice: still here")
	bob.expectSilence()
}

func TestSession_ExitCleanup(t *testing.T) {
	registry := reg(t)

	alice := dialSession(t, registry)
	alice.identify("Alice")
	alice.join("general")

	bob := dialSession(t, registry)
	bob.identify("Bob")
	bob.join("general")
	alice.expect("[Server] Bob has joined general.")

	bob.send("/exit")
	bob.expectClosed()
	alice.expect("[Server] Bob has left the chat.")

	if count := registry.MemberCount("general"); count != 1 {
		t.Errorf("Expected 1 member after exit, got %d", count)
	}
}

func TestSession_AbruptDisconnect(t *testing.T) {
	registry := reg(t)

	alice := dialSession(t, registry)
	alice.identify("Alice")
	alice.join("general")

	bob := dialSession(t, registry)
	bob.identify("Bob")
	bob.join("general")
	alice.expect("[Server] Bob has joined general.")

	bob.conn.Close()
	bob.expectClosed()
	alice.expect("[Server] Bob has left the chat.")

	if count := registry.MemberCount("general"); count != 1 {
		t.Errorf("Expected 1 member after disconnect, got %d", count)
	}
}

func TestSession_DisconnectBeforeIdentify(t *testing.T) {
	registry := reg(t)
	client := dialSession(t, registry)

	client.conn.Close()
	client.expectClosed()

	for _, name := range defaultRooms {
		if count := registry.MemberCount(name); count != 0 {
			t.Errorf("Expected 0 members in %s, got %d", name, count)
		}
	}
}

func TestSession_UnknownCommand(t *testing.T) {
	client := dialSession(t, reg(t))
	client.identify("Alice")

	client.send("/dance")
	client.expect("[Server] Unknown command: /dance")
	client.expect("[Server] Available commands:")
}

func TestSession_JoinWithoutArgument(t *testing.T) {
	client := dialSession(t, reg(t))
	client.identify("Alice")

	client.send("/join")
	client.expect("[Server] Usage: /join <room>")
}

func TestSession_DeliverRefusedAfterClose(t *testing.T) {
	client := dialSession(t, reg(t))
	client.conn.Close()
	client.expectClosed()

	if client.session.Deliver("late line") {
		t.Error("Deliver accepted a line after close")
	}
}
