package emu

import (
	"errors"
	"fmt"
)

// Mode selects what answers the main CPU on the MCU data port.
type Mode int

const (
	// ModeReal routes traffic to a 68705 core run by the host. The core
	// reaches the link through ReadPort/WritePort/WriteDDR.
	ModeReal Mode = iota

	// ModeSimulated answers commands with the built-in interpreter.
	ModeSimulated

	// ModeAbsent is a bootleg board with the MCU removed.
	ModeAbsent
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeReal:
		return "real"
	case ModeSimulated:
		return "simulated"
	case ModeAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// Config describes an MCU link.
type Config struct {
	Handshake Handshake
	Mode      Mode
	Sim       *SimConfig    // required for ModeSimulated
	Line      InterruptLine // MCU core input lines; a LineLatch when nil, never a typed nil
}

var (
	errBadHandshake = errors.New("unknown handshake variant")
	errBadMode      = errors.New("unknown MCU mode")
	errNoSimConfig  = errors.New("simulated MCU requires a SimConfig")
)

// MCU is the main CPU <-> 68705 link of one board.
type MCU struct {
	mode      Mode
	handshake Handshake
	rules     *handshakeRules

	link  CommLink
	ports [numPorts]PortState
	sim   *Simulator
	line  InterruptLine
}

// NewMCU creates an MCU link in its power-on state.
func NewMCU(cfg Config) (*MCU, error) {
	if cfg.Handshake < HandshakeStatus || cfg.Handshake > HandshakeReadyAccept {
		return nil, fmt.Errorf("%w: %d", errBadHandshake, cfg.Handshake)
	}

	m := &MCU{
		mode:      cfg.Mode,
		handshake: cfg.Handshake,
		rules:     &handshakes[cfg.Handshake],
		line:      cfg.Line,
	}
	if m.line == nil {
		m.line = &LineLatch{}
	}

	switch cfg.Mode {
	case ModeReal, ModeAbsent:
	case ModeSimulated:
		if cfg.Sim == nil {
			return nil, errNoSimConfig
		}
		sim, err := NewSimulator(*cfg.Sim)
		if err != nil {
			return nil, err
		}
		m.sim = sim
	default:
		return nil, fmt.Errorf("%w: %d", errBadMode, cfg.Mode)
	}

	m.Reset()
	return m, nil
}

// Reset performs a machine reset: link flags, mailboxes, port latches and
// DDRs are cleared, and a simulated MCU drops any open command.
func (m *MCU) Reset() {
	m.rules.reset(&m.link)
	m.ports = [numPorts]PortState{}
	if m.sim != nil {
		m.sim.Reset()
	}
}

// WriteData handles a main CPU write to the MCU data port.
func (m *MCU) WriteData(v byte) {
	switch m.mode {
	case ModeReal:
		m.rules.mainWrite(m, v)
	case ModeSimulated:
		m.sim.Write(v)
	}
}

// ReadData handles a main CPU read of the MCU data port.
func (m *MCU) ReadData() byte {
	switch m.mode {
	case ModeReal:
		return m.rules.mainRead(m)
	case ModeSimulated:
		return m.sim.Read()
	default:
		return 0
	}
}

// ReadStatus returns the two handshake status bits, unshifted. Reading has
// no side effects.
func (m *MCU) ReadStatus() byte {
	switch m.mode {
	case ModeReal:
		return m.rules.status(&m.link)
	case ModeSimulated:
		return m.sim.Status()
	default:
		return statusIdle
	}
}

// ReadReset handles a main CPU read of the MCU reset (or comm reset) port.
// Port latches are left alone.
func (m *MCU) ReadReset() byte {
	switch m.mode {
	case ModeReal:
		return m.rules.commReset(m)
	case ModeSimulated:
		m.sim.Reset()
		return 0
	default:
		if m.handshake == HandshakeReadyAccept {
			return 0xFF
		}
		return 0
	}
}

// Link returns a copy of the shared link state.
func (m *MCU) Link() CommLink { return m.link }

// Simulator returns the command interpreter, or nil unless simulated.
func (m *MCU) Simulator() *Simulator { return m.sim }

// Mode returns the MCU mode.
func (m *MCU) Mode() Mode { return m.mode }

// Handshake returns the handshake variant.
func (m *MCU) Handshake() Handshake { return m.handshake }

// Line returns the interrupt collaborator.
func (m *MCU) Line() InterruptLine { return m.line }
