// Command gearlink is a host and accessory simulator for gearlink accessory
// links.
//
// Usage:
//
//	gearlink <command> [flags]
//
// Commands:
//
//	connect    Discover an accessory and exchange messages interactively
//	accessory  Advertise a simulated accessory and answer messages
//	log        View, export, filter and summarize protocol logs
//	history    Show recorded connection history
//	config     Print the effective configuration
//
// Examples:
//
//	# Run an accessory in one terminal
//	gearlink accessory
//
//	# Connect to it from another and write a protocol log
//	GEARLINK_LOG_PROTOCOL_FILE=host.glog gearlink connect
//
//	# Show only channel 104 traffic
//	gearlink log view --channel 104 host.glog
package main

import "github.com/gearlink/gearlink-go/cmd/gearlink/commands"

func main() {
	commands.Execute()
}
