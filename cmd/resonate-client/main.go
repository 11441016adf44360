// ABOUTME: Entry point for the Resonate client
// ABOUTME: Parses CLI flags, discovers or dials a server, and wires session.Controller to an audio sink
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/resonatekit/client/pkg/discovery"
	"github.com/resonatekit/client/pkg/session"
	"github.com/resonatekit/client/pkg/sink"
)

var (
	name        = flag.String("name", "", "Client friendly name (default: hostname-resonate-client)")
	logFile     = flag.String("log-file", "resonate-client.log", "Log file path")
	discoverFor = flag.Duration("discover-timeout", 3*time.Second, "How long to browse mDNS when no server URL is given")
	noTUI       = flag.Bool("no-tui", true, "No-op: this client has no interactive front-end")
	volume      = flag.Float64("volume", 1.0, "Initial linear volume in [0,1]")
)

func main() {
	flag.Parse()
	_ = *noTUI // the CLI surface is a thin flag-parsing wrapper; there is no TUI to toggle

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()
	log.SetOutput(io.MultiWriter(os.Stdout, f))

	clientName := *name
	if clientName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		clientName = fmt.Sprintf("%s-resonate-client", hostname)
	}

	serverURL := flag.Arg(0)
	if serverURL == "" {
		serverURL, err = discoverServer(*discoverFor)
		if err != nil {
			log.Printf("discovery failed: %v", err)
			os.Exit(1)
		}
	}

	log.Printf("starting resonate client %q, connecting to %s", clientName, serverURL)

	snk := sink.NewOtoSink()
	ctrl := session.New(session.Config{
		Name: clientName,
		Sink: snk,
	})
	ctrl.SetVolume(*volume)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ctrl.Connect(ctx, serverURL); err != nil {
		log.Printf("connect failed: %v", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go logEvents(ctrl)

	<-sigCh
	log.Printf("shutdown signal received")
	if err := ctrl.Disconnect(); err != nil {
		log.Printf("disconnect error: %v", err)
	}
	log.Printf("client stopped")
}

// discoverServer browses mDNS for the given duration and returns the first
// server found, the same one-shot pattern the teacher's player used with its
// discovery.Manager before connecting.
func discoverServer(timeout time.Duration) (string, error) {
	log.Printf("no server URL given, browsing mDNS for %s", timeout)

	servers, err := discovery.Discover(timeout)
	if err != nil {
		return "", fmt.Errorf("mdns browse: %w", err)
	}
	if len(servers) == 0 {
		return "", fmt.Errorf("no resonate servers found on the local network")
	}

	srv := servers[0]
	log.Printf("discovered server %q at %s", srv.Name, srv.URL())
	return srv.URL(), nil
}

// logEvents drains the controller's event stream for the life of the
// process, logging each transition; it is the CLI's entire "UI".
func logEvents(ctrl *session.Controller) {
	for ev := range ctrl.Events() {
		switch ev.Kind {
		case session.EventServerConnected:
			log.Printf("connected, session ready")
		case session.EventStreamStarted:
			log.Printf("stream started: %s %dHz %dch %dbit", ev.Format.Codec, ev.Format.SampleRate, ev.Format.Channels, ev.Format.BitDepth)
		case session.EventStreamEnded:
			log.Printf("stream ended")
		case session.EventGroupUpdated:
			log.Printf("group update: %+v", ev.Group)
		case session.EventArtworkReceived:
			log.Printf("artwork received on channel %d (%d bytes)", ev.ArtworkChannel, len(ev.Artwork))
		case session.EventVisualizerData:
			log.Printf("visualizer data: %d bytes", len(ev.Visualizer))
		case session.EventError:
			log.Printf("error (%s): %v", ev.ErrKind, ev.Err)
		}
	}
}
