// Package lan provides an accessory.Platform for accessories on the local
// network.
//
// Accessories are found with mDNS (package discovery) and reached over the
// framed TCP link of package transport. Each configured service profile
// becomes one agent. A peer search lasts BrowseTimeout and reports every
// accessory serving the agent's profile, or a PEERAGENT_NO_RESPONSE code
// error when there is none. A service connection tries the peer's
// addresses in order until one completes the hello.
package lan
