package discovery

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/enbility/zeroconf/v3"
)

// MDNSAdvertiser implements the Advertiser interface using zeroconf.
type MDNSAdvertiser struct {
	config AdvertiserConfig

	mu      sync.Mutex
	servers map[string]*zeroconf.Server // keyed by instance name
}

// NewMDNSAdvertiser creates a new mDNS advertiser.
func NewMDNSAdvertiser(config AdvertiserConfig) (*MDNSAdvertiser, error) {
	return &MDNSAdvertiser{
		config:  config,
		servers: make(map[string]*zeroconf.Server),
	}, nil
}

// getInterfaces returns the network interfaces to use for advertising.
// Returns nil to use all interfaces.
func (a *MDNSAdvertiser) getInterfaces() []net.Interface {
	return selectInterfaces(a.config.Interface)
}

// Advertise starts advertising an accessory.
func (a *MDNSAdvertiser) Advertise(ctx context.Context, info *AccessoryInfo) error {
	if err := ValidateAccessoryInfo(info); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	instance := info.Instance()
	if server, exists := a.servers[instance]; exists {
		server.Shutdown()
		delete(a.servers, instance)
	}

	port := int(info.Port)
	if port == 0 {
		port = DefaultPort
	}

	var opts []zeroconf.ServerOption
	if a.config.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.config.TTL.Seconds())))
	}

	server, err := zeroconf.Register(
		instance,
		ServiceType,
		Domain,
		port,
		TXTRecordsToStrings(EncodeAccessoryTXT(info)),
		a.getInterfaces(),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to register accessory service: %w", err)
	}

	a.servers[instance] = server
	return nil
}

// Update replaces the TXT records of a running advertisement.
func (a *MDNSAdvertiser) Update(info *AccessoryInfo) error {
	if err := ValidateAccessoryInfo(info); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	server, exists := a.servers[info.Instance()]
	if !exists {
		return ErrNotAdvertising
	}
	server.SetText(TXTRecordsToStrings(EncodeAccessoryTXT(info)))
	return nil
}

// Stop stops advertising one instance.
func (a *MDNSAdvertiser) Stop(instance string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	server, exists := a.servers[instance]
	if !exists {
		return ErrNotAdvertising
	}
	server.Shutdown()
	delete(a.servers, instance)
	return nil
}

// StopAll stops all advertisements.
func (a *MDNSAdvertiser) StopAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for instance, server := range a.servers {
		server.Shutdown()
		delete(a.servers, instance)
	}
}

// MDNSBrowser implements the Browser interface using zeroconf.
type MDNSBrowser struct {
	config BrowserConfig

	mu      sync.Mutex
	stopped bool
	nextID  int
	cancels map[int]context.CancelFunc
}

// NewMDNSBrowser creates a new mDNS browser.
func NewMDNSBrowser(config BrowserConfig) (*MDNSBrowser, error) {
	if config.BrowseTimeout == 0 {
		config.BrowseTimeout = BrowseTimeout
	}
	return &MDNSBrowser{
		config:  config,
		cancels: make(map[int]context.CancelFunc),
	}, nil
}

// Browse searches for accessories serving profile.
// Services are aggregated by instance name - addresses from multiple interfaces
// are combined into a single entry. A service is reported removed once its
// last address is gone.
func (b *MDNSBrowser) Browse(ctx context.Context, profile string) (<-chan *AccessoryService, <-chan *AccessoryService, error) {
	ctx, release, err := b.track(ctx)
	if err != nil {
		return nil, nil, err
	}

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)
	in := make(chan *ServiceEntry)
	gone := make(chan *ServiceEntry)

	added := make(chan *AccessoryService)
	lost := make(chan *AccessoryService)

	// Convert resolver entries
	go func() {
		defer close(in)
		defer close(gone)
		for {
			select {
			case e, ok := <-entries:
				if !ok {
					return
				}
				if !forward(ctx, in, entryFromZeroconf(e)) {
					return
				}
			case e, ok := <-removed:
				if !ok {
					removed = nil
					continue
				}
				if !forward(ctx, gone, entryFromZeroconf(e)) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		defer release()
		aggregate(ctx, profile, in, gone, added, lost)
	}()

	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, entries, removed, b.browserOptions()...)
	}()

	return added, lost, nil
}

// FindAll browses for BrowseTimeout and returns every accessory serving
// profile.
func (b *MDNSBrowser) FindAll(ctx context.Context, profile string) ([]*AccessoryService, error) {
	ctx, cancel := context.WithTimeout(ctx, b.config.BrowseTimeout)
	defer cancel()

	added, _, err := b.Browse(ctx, profile)
	if err != nil {
		return nil, err
	}

	var found []*AccessoryService
	for svc := range added {
		found = append(found, svc)
	}
	return found, nil
}

// Find returns the first accessory serving profile that passes filter.
// A nil filter accepts any.
func (b *MDNSBrowser) Find(ctx context.Context, profile string, filter FilterFunc) (*AccessoryService, error) {
	ctx, cancel := context.WithTimeout(ctx, b.config.BrowseTimeout)
	defer cancel()

	added, _, err := b.Browse(ctx, profile)
	if err != nil {
		return nil, err
	}

	for svc := range added {
		if filter == nil || filter(svc) {
			return svc, nil
		}
	}
	return nil, ErrNotFound
}

// Stop stops all active browsing operations.
func (b *MDNSBrowser) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopped = true
	for id, cancel := range b.cancels {
		cancel()
		delete(b.cancels, id)
	}
}

func (b *MDNSBrowser) track(ctx context.Context) (context.Context, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return nil, nil, ErrBrowserStopped
	}

	ctx, cancel := context.WithCancel(ctx)
	id := b.nextID
	b.nextID++
	b.cancels[id] = cancel

	release := func() {
		cancel()
		b.mu.Lock()
		delete(b.cancels, id)
		b.mu.Unlock()
	}
	return ctx, release, nil
}

// browserOptions returns zeroconf client options based on config.
func (b *MDNSBrowser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	// Select specific interface if configured
	if ifaces := selectInterfaces(b.config.Interface); ifaces != nil {
		opts = append(opts, zeroconf.SelectIfaces(ifaces))
	}

	return opts
}

// aggregate turns per-interface records into per-accessory results. It
// closes added and removed on return.
func aggregate(ctx context.Context, profile string, entries, gone <-chan *ServiceEntry, added, removed chan<- *AccessoryService) {
	defer close(added)
	defer close(removed)

	// Track services by instance name, aggregating addresses
	services := make(map[string]*AccessoryService)

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return
			}
			svc, err := entry.ToAccessoryService()
			if err != nil {
				continue
			}
			if profile != "" && svc.Profile != profile {
				continue
			}

			existing, found := services[svc.InstanceName]
			if found {
				existing.Addresses = mergeAddresses(existing.Addresses, svc.Addresses)
				continue
			}
			services[svc.InstanceName] = svc
			if !forward(ctx, added, svc.clone()) {
				return
			}

		case entry, ok := <-gone:
			if !ok {
				gone = nil
				continue
			}
			existing, found := services[entry.Instance]
			if !found {
				continue
			}
			// A goodbye without addresses withdraws the whole service
			if len(entry.Addrs) > 0 {
				existing.Addresses = removeAddresses(existing.Addresses, entry.Addrs)
				if len(existing.Addresses) > 0 {
					continue
				}
			}
			delete(services, entry.Instance)
			if !forward(ctx, removed, existing) {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func forward[T any](ctx context.Context, ch chan<- T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-ctx.Done():
		return false
	}
}

// entryFromZeroconf converts a zeroconf entry to a ServiceEntry.
func entryFromZeroconf(entry *zeroconf.ServiceEntry) *ServiceEntry {
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	return &ServiceEntry{
		Instance: entry.Instance,
		Host:     entry.HostName,
		Port:     uint16(entry.Port),
		Text:     entry.Text,
		Addrs:    addrs,
	}
}

func selectInterfaces(name string) []net.Interface {
	if name == "" {
		return nil
	}
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

// mergeAddresses adds new addresses to existing list, avoiding duplicates.
func mergeAddresses(existing, add []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}

	for _, addr := range add {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

// removeAddresses drops the given addresses from the list.
func removeAddresses(addresses, drop []string) []string {
	toRemove := make(map[string]bool, len(drop))
	for _, addr := range drop {
		toRemove[addr] = true
	}

	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !toRemove[addr] {
			result = append(result, addr)
		}
	}
	return result
}

// Ensure MDNSAdvertiser implements Advertiser interface.
var _ Advertiser = (*MDNSAdvertiser)(nil)

// Ensure MDNSBrowser implements Browser interface.
var _ Browser = (*MDNSBrowser)(nil)
