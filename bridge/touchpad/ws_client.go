package main

// WebSocket client with:
// - TCP keepalive on the dialer
// - aggressive ping ticker
// - pong watchdog (read deadline)
// - background reader to process control frames (required!)
// - a bounded send queue drained by a writer goroutine, so the dispatch loop
//   never blocks on the network; messages are dropped when the queue is full

import (
	"context"
	"encoding/json"
	"net"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsWriteWait = 5 * time.Second
	wsQueueLen  = 256
)

type WSConn struct {
	Conn *websocket.Conn
	mu   sync.Mutex

	queue   chan []byte
	dropped atomic.Int64

	closeOnce sync.Once
	done      chan struct{}
	errC      chan error
}

func DialWS(ctx context.Context, wsURL string, pingEvery time.Duration, pongWait time.Duration) (*WSConn, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, err
	}

	d := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
		NetDialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 15 * time.Second,
		}).DialContext,
	}

	conn, _, err := d.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}

	w := &WSConn{
		Conn:  conn,
		queue: make(chan []byte, wsQueueLen),
		done:  make(chan struct{}),
		errC:  make(chan error, 1),
	}

	// Keepalive needs READ to process PONG/close frames.
	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(_ string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go w.readLoop()
	go w.pingLoop(pingEvery)
	go w.writeLoop()
	return w, nil
}

func (w *WSConn) Close() {
	w.closeOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		_ = w.Conn.SetWriteDeadline(time.Now().Add(time.Second))
		_ = w.Conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		w.mu.Unlock()
		_ = w.Conn.Close()
	})
}

func (w *WSConn) Err() <-chan error { return w.errC }

// Dropped is the number of messages discarded because the queue was full.
func (w *WSConn) Dropped() int64 { return w.dropped.Load() }

func (w *WSConn) sendErr(err error) {
	select {
	case w.errC <- err:
	default:
	}
}

func (w *WSConn) readLoop() {
	for {
		select {
		case <-w.done:
			return
		default:
		}
		_, _, err := w.Conn.ReadMessage()
		if err != nil {
			w.sendErr(err)
			return
		}
	}
}

func (w *WSConn) pingLoop(pingEvery time.Duration) {
	t := time.NewTicker(pingEvery)
	defer t.Stop()
	for {
		select {
		case <-w.done:
			return
		case <-t.C:
			if err := w.write(websocket.PingMessage, []byte("ping")); err != nil {
				w.sendErr(err)
				return
			}
		}
	}
}

func (w *WSConn) writeLoop() {
	for {
		select {
		case <-w.done:
			return
		case b := <-w.queue:
			if err := w.write(websocket.TextMessage, b); err != nil {
				w.sendErr(err)
				return
			}
		}
	}
}

func (w *WSConn) write(messageType int, b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.Conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.Conn.WriteMessage(messageType, b)
}

// QueueJSON encodes v and queues it without blocking.
func (w *WSConn) QueueJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case w.queue <- b:
	default:
		w.dropped.Add(1)
	}
	return nil
}
