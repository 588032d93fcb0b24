package main

// Touchpad edge motion bridge entrypoint.
//
// This directory builds a single self-contained binary that:
// - reads a touchpad from /dev/input/event* (Linux input, MT protocol B)
// - derives a drag-active signal (tap-and-drag or held button)
// - keeps the drag going past the pad edge by synthesizing pointer motion
// - writes that motion to a uinput pointer, a WebSocket receiver or stdout
//
// Code is split across:
// - util.go: env/flag helpers
// - config.go: optional TOML tuning file
// - linux_input.go: Linux input constants + ioctl + input_event parsing
// - device_select.go: device listing + probing/selection + calibration
// - touch_frame.go: MT slot tracking -> frames
// - tapdrag.go: drag-active signal
// - accel.go: flat acceleration filter
// - sink_ws.go / ws_client.go / sink_uinput.go: motion sinks
// - dispatch.go: clock + timer bound to the dispatch loop
// - bridge.go: main run loop

import (
	"flag"
	"fmt"
	"os"
	"time"
)

func main() {
	configPath := resolveConfigPath(os.Args[1:])
	file, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}

	edge := file.EdgeMotion
	cfg := BridgeConfig{
		InputDevice:         getenvDefault("INPUT_DEVICE", file.Device.Path),
		Grab:                getenvBoolDefault("GRAB", file.Device.Grab),
		ProbeSeconds:        getenvFloatDefault("PROBE_SECONDS", 1.5),
		MaxReconnectSeconds: getenvIntDefault("MAX_RECONNECT_SECONDS", 5),
		DragSource:          getenvDefault("DRAG_SOURCE", file.Device.DragSource),
		AccelSpeed:          getenvFloatDefault("ACCEL_SPEED", file.Accel.Speed),
		Sink:                getenvDefault("SINK", file.Sink.Kind),
		WsURL:               getenvDefault("DESKTOP_WS", file.Sink.WsURL),
		UinputName:          getenvDefault("UINPUT_NAME", "edgemotion virtual pointer"),
		PingSeconds:         getenvFloatDefault("PING_SECONDS", file.Sink.PingSeconds),
		PongTimeoutSeconds:  getenvFloatDefault("PONG_TIMEOUT_SECONDS", file.Sink.PongTimeoutSeconds),
		Device:              file.Device,
		Debug:               getenvBoolDefault("DEBUG", false),
		DumpEvents:          getenvBoolDefault("DUMP_EVENTS", false),
	}
	edge.BaseSpeedMMs = getenvFloatDefault("EDGE_SPEED", edge.BaseSpeedMMs)
	edge.ThresholdMM = getenvFloatDefault("EDGE_THRESHOLD_MM", edge.ThresholdMM)
	intervalMS := getenvFloatDefault("EDGE_INTERVAL_MS", float64(edge.IntervalUs)/1000)

	var writeConfigTo string
	flag.String("config", configPath, "TOML config file (default $XDG_CONFIG_HOME/edgemotion/config.toml)")
	flag.StringVar(&writeConfigTo, "write-config", "", "Write the effective file config to this path and exit")
	flag.StringVar(&cfg.InputDevice, "input", cfg.InputDevice, "Touchpad device path (e.g. /dev/input/event5). If empty, auto-detect.")
	flag.BoolVar(&cfg.Grab, "grab", cfg.Grab, "EVIOCGRAB the touchpad (other clients stop seeing it)")
	flag.Float64Var(&cfg.ProbeSeconds, "probe-seconds", cfg.ProbeSeconds, "Seconds to probe each /dev/input/event* when auto-detecting (move a finger during this!)")
	flag.IntVar(&cfg.MaxReconnectSeconds, "max-reconnect-seconds", cfg.MaxReconnectSeconds, "Upper bound of the reconnect backoff (seconds)")
	flag.StringVar(&cfg.DragSource, "drag-source", cfg.DragSource, "What counts as a drag: tap|button|both")
	flag.Float64Var(&cfg.AccelSpeed, "accel-speed", cfg.AccelSpeed, "Flat acceleration speed, -1..1")
	flag.StringVar(&cfg.Sink, "sink", cfg.Sink, "Motion sink: uinput|ws|log")
	flag.StringVar(&cfg.WsURL, "ws", cfg.WsURL, "WebSocket URL for -sink=ws")
	flag.StringVar(&cfg.UinputName, "uinput-name", cfg.UinputName, "Name of the virtual pointer for -sink=uinput")
	flag.Float64Var(&cfg.PingSeconds, "ping-seconds", cfg.PingSeconds, "WebSocket ping interval (seconds)")
	flag.Float64Var(&cfg.PongTimeoutSeconds, "pong-timeout-seconds", cfg.PongTimeoutSeconds, "Reconnect if no pong is received in this window.")
	flag.Float64Var(&edge.BaseSpeedMMs, "edge-speed", edge.BaseSpeedMMs, "Base edge motion speed (mm/s)")
	flag.Float64Var(&edge.ThresholdMM, "edge-threshold", edge.ThresholdMM, "Distance from the pad edge that starts edge motion (mm)")
	flag.Float64Var(&intervalMS, "edge-interval-ms", intervalMS, "Edge motion tick interval (ms)")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Print phase transitions + periodic stats")
	flag.BoolVar(&cfg.DumpEvents, "dump-events", cfg.DumpEvents, "Print raw input events (type/code/value). Noisy.")
	flag.BoolVar(&cfg.ListDevices, "list-devices", false, "Print /proc/bus/input/devices names/handlers and exit")
	flag.Parse()

	edge.IntervalUs = 0
	if intervalMS > 0 {
		edge.IntervalUs = uint64(time.Duration(intervalMS*float64(time.Millisecond)) / time.Microsecond)
	}
	cfg.Edge = edge

	if writeConfigTo != "" {
		file.EdgeMotion = edge
		if err := writeConfig(writeConfigTo, file); err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := RunBridgeForever(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
