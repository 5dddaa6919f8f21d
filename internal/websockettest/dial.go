// Package websockettest holds small websocket client helpers shared by the
// streaming tests.
package websockettest

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// Dial connects to the websocket endpoint served at httpURL (an http:// or
// https:// test server URL) and returns the connection with a cleanup func.
func Dial(httpURL string, header http.Header) (*websocket.Conn, func(), error) {
	wsURL := strings.Replace(httpURL, "http", "ws", 1)
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = conn.Close()
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}
	return conn, cleanup, nil
}
