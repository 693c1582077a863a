package main

// openCLDeviceInfo describes one device reported by list-devices.
type openCLDeviceInfo struct {
	Platform string
	Name     string
	GPU      bool
}
