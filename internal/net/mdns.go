// Package net publishes the open sheets on the local network: a read-only
// HTTP and websocket preview server, advertised and discovered over mDNS.
package net

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/mdns"

	"SheetBoard/internal/logging"
)

const serviceType = "_sheetboard._tcp"

// Peer is a preview server found on the network.
type Peer struct {
	Instance string
	Addr     string // host:port
	Info     []string
}

// Advertise announces a preview server listening on port. Shut the
// returned server down to withdraw the announcement.
func Advertise(instance string, port int) (*mdns.Server, error) {
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("could not get hostname: %w", err)
		}
		instance = host
	}

	service, err := mdns.NewMDNSService(instance, serviceType, "", "", port, nil, []string{"SheetBoard"})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	logging.Logger().Info("advertising preview server", "instance", instance, "port", port)
	return server, nil
}

// Browse queries the network for timeout and calls found for every preview
// server that answers with an IPv4 address.
func Browse(timeout time.Duration, found func(Peer)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if p, ok := peerFromEntry(e); ok {
				found(p)
			}
		}
	}()

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	<-done
	return err
}

func peerFromEntry(e *mdns.ServiceEntry) (Peer, bool) {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return Peer{}, false
	}
	instance, _, _ := strings.Cut(e.Name, ".")
	return Peer{
		Instance: instance,
		Addr:     net.JoinHostPort(e.AddrV4.String(), fmt.Sprint(e.Port)),
		Info:     e.InfoFields,
	}, true
}
