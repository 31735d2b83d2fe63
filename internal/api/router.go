// Package api exposes the HTTP side of the relay: a health check, a room
// listing for operators, and a WebSocket endpoint that speaks the same
// line protocol as the TCP port.
package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/CisoUnlimited/Super-Chat/internal/registry"
	"github.com/CisoUnlimited/Super-Chat/internal/transport"
)

// ConnectFunc hands a framed connection to the chat server, which runs
// the session until it closes.
type ConnectFunc func(conn transport.LineConn)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The chat protocol has no cookies or credentials to protect, so
	// cross-origin browser clients are allowed.
	CheckOrigin: func(*http.Request) bool { return true },
}

type roomInfo struct {
	Name    string `json:"name"`
	Members int    `json:"members"`
}

func NewRouter(reg *registry.Registry, connect ConnectFunc) *gin.Engine {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/rooms", listRooms(reg))
	router.GET("/ws", serveWebSocket(connect))

	return router
}

func listRooms(reg *registry.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		names := reg.ListNames()
		rooms := make([]roomInfo, 0, len(names))
		for _, name := range names {
			rooms = append(rooms, roomInfo{Name: name, Members: reg.MemberCount(name)})
		}
		c.JSON(http.StatusOK, rooms)
	}
}

func serveWebSocket(connect ConnectFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for %s: %v", c.ClientIP(), err)
			return
		}
		go connect(transport.NewWebSocketLineConn(conn))
	}
}
