package emu

// Core identity reported to frontends.
const (
	Name    = "emtechnos"
	Version = "0.1.0"
)
