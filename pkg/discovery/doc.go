// ABOUTME: mDNS service discovery package
// ABOUTME: Discover and advertise Resonate servers on local network

// Package discovery provides mDNS service discovery for Resonate servers
// under the _resonate._tcp service type. It resolves discovered instances
// into ws://host:port/resonate URLs ready to hand to session.Controller.Connect.
//
// Example:
//
//	servers, err := discovery.Discover(3 * time.Second)
//	for _, s := range servers {
//	    fmt.Println(s.Name, s.URL())
//	}
package discovery
