package emu

// Port identifies one of the MC68705's three 8-bit I/O ports.
type Port int

const (
	PortA Port = iota // data bus to and from the main CPU latches
	PortB             // handshake strobes driven by the firmware
	PortC             // handshake flags read by the firmware

	numPorts = 3
)

// String returns the port letter.
func (p Port) String() string {
	switch p {
	case PortA:
		return "A"
	case PortB:
		return "B"
	case PortC:
		return "C"
	default:
		return "?"
	}
}

// Port B handshake strobes driven by the MCU firmware.
const (
	pbLatch = 0x02 // PB1: take the main CPU byte into port A
	pbSend  = 0x04 // PB2: present port A output to the main CPU
)

// Port C handshake inputs seen by the MCU firmware.
const (
	pcMainSent  = 0x01 // a byte from the main CPU is waiting
	pcMcuClear  = 0x02 // the main CPU has taken the last MCU byte
	pcInputMask = pcMainSent | pcMcuClear
)

// PortState holds one bidirectional port. A DDR bit of 1 makes the pin an
// output driven from out; a 0 makes it an input read from in.
type PortState struct {
	ddr byte
	out byte
	in  byte
}

// read merges output and input pins through the direction register.
func (p PortState) read() byte {
	return (p.out & p.ddr) | (p.in &^ p.ddr)
}

// outputs reports whether every bit in mask is configured as an output.
func (p PortState) outputs(mask byte) bool {
	return p.ddr&mask == mask
}

// DDR returns the data direction register.
func (p PortState) DDR() byte { return p.ddr }

// Out returns the output latch.
func (p PortState) Out() byte { return p.out }

// In returns the input latch.
func (p PortState) In() byte { return p.in }

// risingEdge reports whether the bits in mask go from 0 in prev to 1 in next.
func risingEdge(prev, next, mask byte) bool {
	return prev&mask == 0 && next&mask != 0
}

// fallingEdge reports whether the bits in mask go from 1 in prev to 0 in next.
func fallingEdge(prev, next, mask byte) bool {
	return prev&mask != 0 && next&mask == 0
}

// ReadPort returns the effective value of port p as seen by the MCU firmware.
// Port C input pins reflect the current handshake flags.
func (m *MCU) ReadPort(p Port) byte {
	if p < PortA || p > PortC {
		return 0xFF
	}
	if p == PortC {
		var in byte
		if m.link.mainSent {
			in |= pcMainSent
		}
		if !m.link.mcuSent {
			in |= pcMcuClear
		}
		m.ports[PortC].in = in
	}
	return m.ports[p].read()
}

// WritePort stores v in the output latch of port p. Port B writes run the
// handshake edge rules against the previous latch value first.
func (m *MCU) WritePort(p Port, v byte) {
	switch p {
	case PortA, PortC:
		m.ports[p].out = v
	case PortB:
		prev := m.ports[PortB].out
		m.rules.portBWrite(m, prev, v)
		m.ports[PortB].out = v
	}
}

// WriteDDR sets the data direction register of port p.
func (m *MCU) WriteDDR(p Port, v byte) {
	if p < PortA || p > PortC {
		return
	}
	m.ports[p].ddr = v
}

// PortState returns a copy of port p's registers.
func (m *MCU) PortState(p Port) PortState {
	if p < PortA || p > PortC {
		return PortState{}
	}
	return m.ports[p]
}
