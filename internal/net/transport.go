package net

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
)

// LiveURL returns the websocket address of a sheet on a preview server
// reachable at hostport.
func LiveURL(hostport, sheetID string) string {
	return fmt.Sprintf("ws://%s/sheets/%s/live", hostport, sheetID)
}

// Follow connects to a live stream and calls fn for every snapshot until
// ctx is cancelled or the server goes away.
func Follow(ctx context.Context, url string, fn func(Snapshot)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				return nil
			}
			return err
		}
		var s Snapshot
		if err := json.Unmarshal(payload, &s); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		fn(s)
	}
}
