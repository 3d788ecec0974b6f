package emu

// Line names an input line on the MCU's CPU core.
type Line int

const (
	LineIRQ   Line = iota // external interrupt, asserted by main CPU writes
	LineReset             // RESET, pulsed by the main CPU's reset port
)

// String returns the line name.
func (l Line) String() string {
	switch l {
	case LineIRQ:
		return "IRQ"
	case LineReset:
		return "RESET"
	default:
		return "unknown"
	}
}

// LineState is the action applied to a Line.
type LineState int

const (
	ClearLine  LineState = iota // release the line
	AssertLine                  // hold the line active
	PulseLine                   // assert then release after one acknowledge
)

// InterruptLine is implemented by the host's MCU CPU core. The link calls it
// synchronously from inside bus handlers and expects no blocking. A nil
// interface selects a LineLatch; a non-nil interface holding a nil pointer
// is not checked and must not be passed.
type InterruptLine interface {
	SetInputLine(line Line, state LineState)
}

// LineLatch is an InterruptLine that records line activity. It is used when
// the host has no MCU core attached (simulated or absent MCU) and by tests.
type LineLatch struct {
	irq   bool
	reset bool

	IRQPulses   int
	ResetPulses int
}

// SetInputLine implements InterruptLine.
func (l *LineLatch) SetInputLine(line Line, state LineState) {
	var level *bool
	var pulses *int
	switch line {
	case LineIRQ:
		level, pulses = &l.irq, &l.IRQPulses
	case LineReset:
		level, pulses = &l.reset, &l.ResetPulses
	default:
		return
	}

	switch state {
	case ClearLine:
		*level = false
	case AssertLine:
		*level = true
	case PulseLine:
		*pulses++
		*level = false
	}
}

// Raised reports whether IRQ is currently held active.
func (l *LineLatch) Raised() bool {
	return l.irq
}

// InReset reports whether RESET is currently held active.
func (l *LineLatch) InReset() bool {
	return l.reset
}
