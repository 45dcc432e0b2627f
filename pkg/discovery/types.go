package discovery

import (
	"errors"
	"time"
)

// Service type constants for mDNS.
const (
	// ServiceType is the service type accessories advertise.
	ServiceType = "_gearlink._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultPort is the default accessory port.
	DefaultPort = 7455
)

// TXT record key constants.
const (
	TXTKeyProfile    = "profile" // Service profile the accessory serves
	TXTKeyName       = "name"    // User-facing accessory name
	TXTKeyDeviceType = "type"    // Device type reported on attach/detach
	TXTKeyID         = "id"      // Stable accessory identifier (optional)
)

// Timing constants.
const (
	// BrowseTimeout is the default timeout for mDNS browsing.
	BrowseTimeout = 10 * time.Second

	// DefaultTTL is the default DNS record TTL for advertisements.
	DefaultTTL = 120 * time.Second
)

// Limits.
const (
	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63

	// MaxTXTValueLen bounds a single TXT value.
	MaxTXTValueLen = 200
)

// Discovery errors.
var (
	ErrInvalidTXTRecord    = errors.New("invalid TXT record format")
	ErrMissingRequired     = errors.New("missing required field")
	ErrInstanceNameTooLong = errors.New("instance name exceeds 63 characters")
	ErrEmptyInstanceName   = errors.New("instance name is empty")
	ErrNotFound            = errors.New("service not found")
	ErrNotAdvertising      = errors.New("not advertising")
	ErrBrowserStopped      = errors.New("browser stopped")
)

// AccessoryInfo is what an accessory advertises about itself.
type AccessoryInfo struct {
	// InstanceName is the DNS-SD instance name. Defaults to Name.
	InstanceName string

	// Profile is the service profile the accessory serves. Required.
	Profile string

	// Name is the user-facing accessory name. Required.
	Name string

	// DeviceType is reported to hosts on attach and detach.
	DeviceType string

	// ID is a stable identifier, typically a UUID.
	ID string

	// Port is the transport listen port.
	Port uint16
}

// Instance returns the instance name to register.
func (i *AccessoryInfo) Instance() string {
	if i.InstanceName != "" {
		return i.InstanceName
	}
	return i.Name
}

// AccessoryService is an accessory found by browsing.
type AccessoryService struct {
	InstanceName string
	Host         string
	Port         uint16
	Addresses    []string

	Profile    string
	Name       string
	DeviceType string
	ID         string
}

// Key identifies the service across browse results.
func (s *AccessoryService) Key() string {
	if s.ID != "" {
		return s.ID
	}
	return s.InstanceName
}

// clone returns a copy safe to hand to another goroutine.
func (s *AccessoryService) clone() *AccessoryService {
	c := *s
	c.Addresses = append([]string(nil), s.Addresses...)
	return &c
}
