package emu

import (
	"fmt"

	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/emtechnos/logger"
)

// Compile-time interface checks.
var _ emucore.SaveStater = (*Board)(nil)
var _ emucore.MemoryInspector = (*Board)(nil)

// MCU-side address decode. The 68705 sees its ports and DDRs in the first
// bytes of its 11-bit address space; RAM and ROM belong to the host core.
const (
	mcuAddrMask  = 0x7FF
	mcuPortA     = 0x000
	mcuPortB     = 0x001
	mcuPortC     = 0x002
	mcuDDRA      = 0x004
	mcuDDRB      = 0x005
	mcuDDRC      = 0x006
	mcuUnmapped  = 0xFF
	boardLogTag  = "board"
	optionTrace  = "mcu_trace"
	optionEnable = "true"
)

// Flat address boundaries for ReadMemory.
const (
	portRegsStart = 0x00
	portRegsEnd   = 0x02
	ddrRegsStart  = 0x04
	ddrRegsEnd    = 0x06
	simBufStart   = 0x10
	simBufEnd     = simBufStart + simBufferSize - 1
)

// Board is the MCU side of one PCB: the link plus the game's address map.
type Board struct {
	game     *Game
	mcu      *MCU
	firmware []byte
	trace    bool
}

// NewBoard creates the board for the named game. Games with a real MCU need
// its firmware; the host core runs it and reaches the link through
// ReadMCU/WriteMCU.
func NewBoard(name string, firmware []byte, line InterruptLine) (*Board, error) {
	g, err := GameByName(name)
	if err != nil {
		return nil, err
	}

	if g.Mode == ModeReal {
		if err := VerifyFirmware(firmware, g); err != nil {
			return nil, err
		}
	}

	m, err := NewMCU(g.Config(line))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.Name, err)
	}

	return &Board{
		game:     g,
		mcu:      m,
		firmware: firmware,
	}, nil
}

// Game returns the board's game.
func (b *Board) Game() *Game { return b.game }

// MCU returns the MCU link.
func (b *Board) MCU() *MCU { return b.mcu }

// Firmware returns the MCU firmware image, nil unless the MCU is real.
func (b *Board) Firmware() []byte { return b.firmware }

// Reset performs a machine reset.
func (b *Board) Reset() {
	b.mcu.Reset()
}

// ReadMain decodes a main CPU read. The bool is false for addresses the MCU
// does not own.
func (b *Board) ReadMain(addr uint16) (byte, bool) {
	var v byte
	switch addr {
	case b.game.Map.DataRead:
		v = b.mcu.ReadData()
	case b.game.Map.ResetRead:
		v = b.mcu.ReadReset()
	default:
		return 0, false
	}
	if b.trace {
		logger.Logf(boardLogTag, "main read %04x -> %02x", addr, v)
	}
	return v, true
}

// WriteMain decodes a main CPU write. The bool is false for addresses the
// MCU does not own.
func (b *Board) WriteMain(addr uint16, v byte) bool {
	if addr != b.game.Map.DataWrite {
		return false
	}
	if b.trace {
		logger.Logf(boardLogTag, "main write %04x <- %02x", addr, v)
	}
	b.mcu.WriteData(v)
	return true
}

// StatusBits returns the MCU status already shifted into the game's input
// port. The host ORs it with the rest of the port.
func (b *Board) StatusBits() byte {
	return b.mcu.ReadStatus() << b.game.StatusShift
}

// ReadMCU decodes a 68705 read of its I/O registers.
func (b *Board) ReadMCU(addr uint16) byte {
	switch addr & mcuAddrMask {
	case mcuPortA:
		return b.mcu.ReadPort(PortA)
	case mcuPortB:
		return b.mcu.ReadPort(PortB)
	case mcuPortC:
		return b.mcu.ReadPort(PortC)
	default:
		return mcuUnmapped
	}
}

// WriteMCU decodes a 68705 write to its I/O registers.
func (b *Board) WriteMCU(addr uint16, v byte) {
	switch addr & mcuAddrMask {
	case mcuPortA:
		b.mcu.WritePort(PortA, v)
	case mcuPortB:
		if b.trace {
			logger.Logf(boardLogTag, "port B %02x -> %02x", b.mcu.ports[PortB].out, v)
		}
		b.mcu.WritePort(PortB, v)
	case mcuPortC:
		b.mcu.WritePort(PortC, v)
	case mcuDDRA:
		b.mcu.WriteDDR(PortA, v)
	case mcuDDRB:
		b.mcu.WriteDDR(PortB, v)
	case mcuDDRC:
		b.mcu.WriteDDR(PortC, v)
	}
}

// SetOption applies a core option change identified by key.
func (b *Board) SetOption(key string, value string) {
	switch key {
	case optionTrace:
		b.trace = value == optionEnable
	}
}

// ReadMemory reads from a flat address into buf and returns the number
// of bytes read. Ports and DDRs sit at their 68705 addresses; the simulated
// command buffer follows at 0x10.
func (b *Board) ReadMemory(addr uint32, buf []byte) uint32 {
	var count uint32
	for i := range buf {
		cur := addr + uint32(i)
		var v byte
		switch {
		case cur >= portRegsStart && cur <= portRegsEnd:
			v = b.mcu.ports[cur-portRegsStart].read()
		case cur >= ddrRegsStart && cur <= ddrRegsEnd:
			v = b.mcu.ports[cur-ddrRegsStart].ddr
		case cur >= simBufStart && cur <= simBufEnd && b.mcu.sim != nil:
			v = b.mcu.sim.buffer[cur-simBufStart]
		default:
			return count
		}
		buf[i] = v
		count++
	}
	return count
}
