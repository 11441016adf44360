// ABOUTME: mDNS service discovery for Resonate servers
// ABOUTME: Handles both advertisement (server-initiated) and browsing (client-initiated)
package discovery

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_resonate._tcp"

// Config holds discovery configuration.
type Config struct {
	ServiceName string
	Port        int
	ServerMode  bool // informational only: Manager never reads it; callers choose Advertise or Browse
}

// Manager handles mDNS advertisement and browsing for the duration of its
// lifetime; Stop cancels any in-flight browse loop and advertisement.
type Manager struct {
	config  Config
	ctx     context.Context
	cancel  context.CancelFunc
	servers chan *ServerInfo
}

// ServerInfo describes a discovered Resonate server.
type ServerInfo struct {
	Name string
	Host string
	Port int
}

// URL returns the WebSocket URL a Controller should dial to reach this
// server, per the protocol's fixed /resonate path.
func (s *ServerInfo) URL() string {
	return fmt.Sprintf("ws://%s:%d/resonate", s.Host, s.Port)
}

// NewManager creates a discovery manager.
func NewManager(config Config) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		config:  config,
		ctx:     ctx,
		cancel:  cancel,
		servers: make(chan *ServerInfo, 10),
	}
}

// Advertise advertises this process as a Resonate server via mDNS.
func (m *Manager) Advertise() error {
	ips, err := getLocalIPs()
	if err != nil {
		return fmt.Errorf("failed to get local IPs: %w", err)
	}

	service, err := mdns.NewMDNSService(
		m.config.ServiceName,
		serviceType,
		"",
		"",
		m.config.Port,
		ips,
		[]string{"path=/resonate"},
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}

	log.Printf("advertising mDNS service: %s on port %d (type: %s)", m.config.ServiceName, m.config.Port, serviceType)

	go func() {
		<-m.ctx.Done()
		server.Shutdown()
	}()

	return nil
}

// Browse continuously searches for Resonate servers, delivering results on
// Servers() until Stop is called.
func (m *Manager) Browse() error {
	go m.browseLoop()
	return nil
}

func (m *Manager) browseLoop() {
	for {
		select {
		case <-m.ctx.Done():
			return
		default:
		}

		entries := make(chan *mdns.ServiceEntry, 10)

		go func() {
			for entry := range entries {
				server := &ServerInfo{
					Name: entry.Name,
					Host: entry.AddrV4.String(),
					Port: entry.Port,
				}

				log.Printf("discovered server: %s at %s", server.Name, server.URL())

				select {
				case m.servers <- server:
				case <-m.ctx.Done():
					return
				}
			}
		}()

		params := &mdns.QueryParam{
			Service: serviceType,
			Domain:  "local",
			Timeout: 3,
			Entries: entries,
		}

		mdns.Query(params)
		close(entries)
	}
}

// Servers returns the channel of discovered servers.
func (m *Manager) Servers() <-chan *ServerInfo {
	return m.servers
}

// Stop stops the discovery manager. Idempotent.
func (m *Manager) Stop() {
	m.cancel()
}

// Discover performs a one-shot browse, collecting every server that
// responds within timeout. Intended for CLI use where a caller wants a
// list rather than a live channel; the browse-forever Manager API remains
// available for long-running discovery.
func Discover(timeout time.Duration) ([]*ServerInfo, error) {
	m := NewManager(Config{})
	defer m.Stop()

	if err := m.Browse(); err != nil {
		return nil, err
	}

	var found []*ServerInfo
	deadline := time.After(timeout)
	for {
		select {
		case server := <-m.servers:
			found = append(found, server)
		case <-deadline:
			return found, nil
		}
	}
}

// getLocalIPs returns non-loopback IPv4 addresses of up interfaces.
func getLocalIPs() ([]net.IP, error) {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					ips = append(ips, ipnet.IP)
				}
			}
		}
	}

	return ips, nil
}
