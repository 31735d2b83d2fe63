package transport

import (
	"net"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

type wsLineConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// NewWebSocketLineConn adapts a WebSocket connection to the line protocol:
// one text message per line. Binary and control frames are skipped.
func NewWebSocketLineConn(conn *websocket.Conn) LineConn {
	return &wsLineConn{conn: conn}
}

func (c *wsLineConn) ReadLine() (string, error) {
	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			return "", err
		}
		if messageType != websocket.TextMessage {
			continue
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
}

func (c *wsLineConn) WriteLine(line string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

func (c *wsLineConn) Close() error {
	return c.conn.Close()
}

func (c *wsLineConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
