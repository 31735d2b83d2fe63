// Command client is a minimal terminal client for the chat server: it
// prints every server line and forwards every line typed on stdin.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
)

func main() {
	addr := flag.String("addr", "localhost:50000", "chat server address")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		log.Fatalf("Error connecting to chat server: %v", err)
	}
	defer conn.Close()
	fmt.Println("Connected to", *addr)

	serverClosed := make(chan struct{})
	go func() {
		defer close(serverClosed)
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			fmt.Println(">>", scanner.Text())
		}
	}()

	keyboardClosed := make(chan struct{})
	go func() {
		defer close(keyboardClosed)
		keyboard := bufio.NewScanner(os.Stdin)
		for keyboard.Scan() {
			if _, err := fmt.Fprintln(conn, keyboard.Text()); err != nil {
				return
			}
		}
	}()

	select {
	case <-serverClosed:
		fmt.Println("Server closed the connection.")
	case <-keyboardClosed:
	}
}
