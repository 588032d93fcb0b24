package main

import (
	"fmt"

	"touchpad-edgemotion/edgemotion"
)

type outPointerMotion struct {
	T     string  `json:"t"`
	TS    uint64  `json:"ts"` // us, dispatch clock
	DX    float64 `json:"dx"`
	DY    float64 `json:"dy"`
	RawDX float64 `json:"raw_dx"`
	RawDY float64 `json:"raw_dy"`
}

type outEdgeState struct {
	T     string `json:"t"`
	TS    uint64 `json:"ts"`
	Phase string `json:"phase"`
	Edges string `json:"edges"`
}

// jsonQueue is the part of WSConn the sink needs.
type jsonQueue interface {
	QueueJSON(v any) error
}

// wsSink streams synthesized motion to a desktop-side receiver.
type wsSink struct {
	ws    jsonQueue
	conn  *WSConn
	debug bool
}

func (s *wsSink) PointerMotion(time uint64, delta, raw edgemotion.Vec) {
	err := s.ws.QueueJSON(outPointerMotion{
		T:     "pointer_motion",
		TS:    time,
		DX:    delta.X,
		DY:    delta.Y,
		RawDX: raw.X,
		RawDY: raw.Y,
	})
	if err != nil && s.debug {
		fmt.Printf("[ws] encode motion: %v\n", err)
	}
}

func (s *wsSink) EdgeState(time uint64, st edgemotion.State) {
	_ = s.ws.QueueJSON(outEdgeState{T: "edge_state", TS: time, Phase: st.Phase.String(), Edges: st.Edges.String()})
}

func (s *wsSink) Close() error {
	if s.conn != nil {
		if n := s.conn.Dropped(); n > 0 {
			fmt.Printf("[ws] dropped %d messages (queue full)\n", n)
		}
		s.conn.Close()
	}
	return nil
}

// logSink prints every motion; useful to tune thresholds without a receiver.
type logSink struct{}

func (logSink) PointerMotion(time uint64, delta, raw edgemotion.Vec) {
	fmt.Printf("[edge] motion ts=%d dx=%.3f dy=%.3f raw=(%.3f, %.3f)\n", time, delta.X, delta.Y, raw.X, raw.Y)
}

func (logSink) EdgeState(time uint64, st edgemotion.State) {
	fmt.Printf("[edge] ts=%d %s -> %s edges=%s ticks=%d\n", time, st.PreviousPhase, st.Phase, st.Edges, st.TickCount)
}

func (logSink) Close() error { return nil }
