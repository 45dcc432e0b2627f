package discovery

import (
	"context"
	"time"
)

// Browser provides mDNS service browsing capabilities.
type Browser interface {
	// Browse searches for accessories serving profile. An empty profile
	// matches every accessory. Returns two channels: added (new
	// accessories) and removed (accessories that disappeared). Both
	// channels are closed when the context is cancelled.
	Browse(ctx context.Context, profile string) (added, removed <-chan *AccessoryService, err error)

	// Stop stops all active browsing operations.
	Stop()
}

// BrowserConfig configures browser behavior.
type BrowserConfig struct {
	// BrowseTimeout is the default timeout for FindAll.
	// Default: 10 seconds.
	BrowseTimeout time.Duration

	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string
}

// DefaultBrowserConfig returns the default browser configuration.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		BrowseTimeout: BrowseTimeout,
		Interface:     "",
	}
}

// FilterFunc is a function that filters browse results.
type FilterFunc func(*AccessoryService) bool

// FilterByDeviceType returns a filter that matches any of the given device types.
func FilterByDeviceType(types ...string) FilterFunc {
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return func(svc *AccessoryService) bool {
		_, ok := set[svc.DeviceType]
		return ok
	}
}

// FilterByName returns a filter that matches the given accessory name.
func FilterByName(name string) FilterFunc {
	return func(svc *AccessoryService) bool {
		return svc.Name == name
	}
}

// FilterBrowseResults filters a channel of accessory services.
func FilterBrowseResults(in <-chan *AccessoryService, filter FilterFunc) <-chan *AccessoryService {
	out := make(chan *AccessoryService)
	go func() {
		defer close(out)
		for svc := range in {
			if filter(svc) {
				out <- svc
			}
		}
	}()
	return out
}

// ServiceEntry is a resolved mDNS record, independent of the resolver.
// This is a helper for Browser implementations.
type ServiceEntry struct {
	Instance string
	Host     string
	Port     uint16
	Text     []string
	Addrs    []string
}

// ToAccessoryService converts a ServiceEntry to AccessoryService.
func (e *ServiceEntry) ToAccessoryService() (*AccessoryService, error) {
	info, err := DecodeAccessoryTXT(StringsToTXTRecords(e.Text))
	if err != nil {
		return nil, err
	}

	return &AccessoryService{
		InstanceName: e.Instance,
		Host:         e.Host,
		Port:         e.Port,
		Addresses:    append([]string(nil), e.Addrs...),
		Profile:      info.Profile,
		Name:         info.Name,
		DeviceType:   info.DeviceType,
		ID:           info.ID,
	}, nil
}
