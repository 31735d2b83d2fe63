// Package transport frames a client connection as a sequence of text lines.
package transport

import (
	"bufio"
	"net"
	"strings"
	"sync"
)

// LineConn is one bidirectional line-oriented stream to a client.
// WriteLine is safe for concurrent use; ReadLine is not.
type LineConn interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
	RemoteAddr() net.Addr
}

type netLineConn struct {
	conn    net.Conn
	reader  *bufio.Reader
	writeMu sync.Mutex
}

// NewNetLineConn wraps a net.Conn with newline-delimited framing.
func NewNetLineConn(conn net.Conn) LineConn {
	return &netLineConn{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}
}

func (c *netLineConn) ReadLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *netLineConn) WriteLine(line string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_, err := c.conn.Write([]byte(line + "\n"))
	return err
}

func (c *netLineConn) Close() error {
	return c.conn.Close()
}

func (c *netLineConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
