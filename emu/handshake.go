package emu

// Handshake selects the main CPU <-> MCU protocol wiring used by a board.
type Handshake int

const (
	// HandshakeStatus is the Renegade wiring: the main CPU polls
	// "main sent" and "MCU sent" flags, each cleared by the consumer.
	HandshakeStatus Handshake = iota

	// HandshakeReadyAccept is the Xain'd Sleena wiring: "ready" and
	// "accept" flags with a dedicated comm-reset read for resync.
	HandshakeReadyAccept
)

// String returns the handshake name.
func (h Handshake) String() string {
	switch h {
	case HandshakeStatus:
		return "status"
	case HandshakeReadyAccept:
		return "ready/accept"
	default:
		return "unknown"
	}
}

// CommLink is the state shared by the main CPU and the MCU. Each direction
// is a single-slot mailbox; a second write before the other side consumes
// the first silently replaces it, as on the PCB.
//
// The ready/accept wiring uses the same flags with inverted sense:
// ready == !mcuSent and accept == !mainSent.
type CommLink struct {
	fromMain byte
	fromMcu  byte
	mainSent bool
	mcuSent  bool
}

// FromMain returns the last byte written by the main CPU.
func (l CommLink) FromMain() byte { return l.fromMain }

// FromMcu returns the last byte latched from the MCU.
func (l CommLink) FromMcu() byte { return l.fromMcu }

// MainSent reports whether a main CPU byte is waiting for the MCU.
func (l CommLink) MainSent() bool { return l.mainSent }

// McuSent reports whether an MCU byte is waiting for the main CPU.
func (l CommLink) McuSent() bool { return l.mcuSent }

// Status bits returned to the main CPU, before the per-game shift.
const (
	statusBit0 = 0x01
	statusBit1 = 0x02
	statusIdle = statusBit0 | statusBit1
)

// handshakeRules are the transitions of one wiring variant.
type handshakeRules struct {
	mainWrite  func(m *MCU, data byte)
	portBWrite func(m *MCU, prev, data byte)
	mainRead   func(m *MCU) byte
	commReset  func(m *MCU) byte
	status     func(l *CommLink) byte
	reset      func(l *CommLink)
}

var handshakes = [...]handshakeRules{
	HandshakeStatus: {
		mainWrite:  statusMainWrite,
		portBWrite: statusPortBWrite,
		mainRead:   statusMainRead,
		commReset:  statusCommReset,
		status:     statusFlags,
		reset:      clearLink,
	},
	HandshakeReadyAccept: {
		mainWrite:  readyAcceptMainWrite,
		portBWrite: readyAcceptPortBWrite,
		mainRead:   readyAcceptMainRead,
		commReset:  readyAcceptCommReset,
		status:     readyAcceptFlags,
		reset:      clearReadyAccept,
	},
}

func statusMainWrite(m *MCU, data byte) {
	m.link.fromMain = data
	m.link.mainSent = true
	m.line.SetInputLine(LineIRQ, AssertLine)
}

func statusPortBWrite(m *MCU, prev, data byte) {
	portB := &m.ports[PortB]

	// PB1 high->low: the firmware takes the main CPU byte.
	if portB.outputs(pbLatch) && fallingEdge(prev, data, pbLatch) {
		m.ports[PortA].in = m.link.fromMain
		if m.link.mainSent {
			m.line.SetInputLine(LineIRQ, ClearLine)
		}
		m.link.mainSent = false
	}

	// PB2 low->high: the firmware publishes port A to the main CPU.
	if portB.outputs(pbSend) && risingEdge(prev, data, pbSend) {
		m.link.fromMcu = m.ports[PortA].out
		m.link.mcuSent = true
	}
}

func statusMainRead(m *MCU) byte {
	m.link.mcuSent = false
	return m.link.fromMcu
}

func statusCommReset(m *MCU) byte {
	m.line.SetInputLine(LineReset, PulseLine)
	return 0
}

func statusFlags(l *CommLink) byte {
	var res byte
	if !l.mainSent {
		res |= statusBit0
	}
	if !l.mcuSent {
		res |= statusBit1
	}
	return res
}

func clearLink(l *CommLink) {
	*l = CommLink{}
}

func readyAcceptMainWrite(m *MCU, data byte) {
	m.link.fromMain = data
	m.link.mainSent = true // accept = 0
	m.line.SetInputLine(LineIRQ, AssertLine)
}

func readyAcceptPortBWrite(m *MCU, prev, data byte) {
	portB := &m.ports[PortB]

	if portB.outputs(pbLatch) {
		if data&pbLatch == 0 {
			// PB1 held low: port A follows the main CPU latch.
			m.ports[PortA].in = m.link.fromMain
		} else if risingEdge(prev, data, pbLatch) {
			m.link.mainSent = false // accept = 1
			m.line.SetInputLine(LineIRQ, ClearLine)
		}
	}

	if portB.outputs(pbSend) && risingEdge(prev, data, pbSend) {
		m.link.mcuSent = true // ready = 0
		m.link.fromMcu = m.ports[PortA].out
	}
}

func readyAcceptMainRead(m *MCU) byte {
	m.link.mcuSent = false // ready = 1
	return m.link.fromMcu
}

func readyAcceptCommReset(m *MCU) byte {
	m.link.mcuSent = false  // ready = 1
	m.link.mainSent = false // accept = 1
	m.line.SetInputLine(LineIRQ, ClearLine)
	return 0xFF
}

func readyAcceptFlags(l *CommLink) byte {
	var res byte
	if !l.mcuSent {
		res |= statusBit0 // ready
	}
	if !l.mainSent {
		res |= statusBit1 // accept
	}
	return res
}

// clearReadyAccept zeroes the board's ready and accept latches, which in
// link terms leaves both directions marked as pending until the game
// issues a comm reset.
func clearReadyAccept(l *CommLink) {
	*l = CommLink{mainSent: true, mcuSent: true}
}
