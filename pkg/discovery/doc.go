// Package discovery implements mDNS/DNS-SD discovery for gearlink accessories.
//
// # Accessory Discovery (_gearlink._tcp)
//
// Accessories advertise one instance per service they offer. The instance
// name defaults to the accessory name.
// TXT records include: profile (service profile), name, and optionally
// type (device type) and id (stable identifier).
//
// Hosts browse for a profile. A record seen on several interfaces is
// reported once, with the addresses of all interfaces merged. It is
// reported removed when its last address goes away or the accessory
// withdraws the record.
package discovery
