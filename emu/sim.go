package emu

import (
	"fmt"

	"github.com/user-none/emtechnos/logger"
)

const (
	// simBufferSize is the capacity of the simulated MCU's command buffer.
	// Extra bytes in a command are decrypted and dropped.
	simBufferSize = 6

	// simIdleByte is returned by data reads once the reply is exhausted.
	simIdleByte = 1

	logTag = "mcu"
)

// Simulated MCU opcodes.
const (
	cmdChecksum    = 0x10 // ROM check constant
	cmdSound       = 0x26 // sound code -> sound command
	cmdJoystick    = 0x33 // joystick bits -> direction
	cmdEnemyHealth = 0x40 // difficulty, enemy type -> health
	cmdStageConst  = 0x41 // stage -> fixed pair
	cmdEnemyType   = 0x42 // stage, slot -> enemy type
	cmdDifficulty  = 0x44 // DSW2, stage -> difficulty
	cmdTimer       = 0x55 // DSW2 -> stage timer
)

// SimConfig configures a simulated MCU.
type SimConfig struct {
	Checksum  byte           // reply to the ROM check command
	Keystream []byte         // command argument XOR key
	Status    byte           // constant status bits reported to the main CPU
	Tables    *CommandTables // game logic tables
}

// Simulator stands in for an MCU whose internal ROM has not been dumped.
// The main CPU writes a command (opcode in the clear, arguments encrypted),
// then reads back a reply that is computed on the first read.
type Simulator struct {
	checksum byte
	status   byte
	tables   CommandTables
	keys     Keystream

	buffer       [simBufferSize]byte
	inputSize    int
	outputCursor int
	outputLen    int
}

// NewSimulator returns a simulator for cfg, or an error if its tables are
// malformed. The tables and key are copied.
func NewSimulator(cfg SimConfig) (*Simulator, error) {
	if len(cfg.Keystream) == 0 {
		return nil, errEmptyKey
	}
	if err := cfg.Tables.validate(); err != nil {
		return nil, fmt.Errorf("invalid MCU tables: %w", err)
	}
	return &Simulator{
		checksum: cfg.Checksum,
		status:   cfg.Status,
		tables:   *cfg.Tables.clone(),
		keys:     NewKeystream(cfg.Keystream),
	}, nil
}

// Reset re-arms the keystream and forgets any partial command or reply.
// The buffer contents are left as they are.
func (s *Simulator) Reset() {
	s.keys.Rearm()
	s.inputSize = 0
	s.outputCursor = 0
	s.outputLen = 0
}

// Write accepts one byte from the main CPU.
func (s *Simulator) Write(data byte) {
	s.outputCursor = 0

	if s.keys.Armed() {
		s.keys.Open()
		s.inputSize = 1
		s.buffer[0] = data
		return
	}

	data = s.keys.Apply(data)
	if s.inputSize < simBufferSize {
		s.buffer[s.inputSize] = data
		s.inputSize++
	}
}

// Read returns the next reply byte to the main CPU, running the pending
// command first if one has been written.
func (s *Simulator) Read() byte {
	if s.inputSize != 0 {
		s.process()
	}
	if s.outputCursor < s.outputLen {
		b := s.buffer[s.outputCursor]
		s.outputCursor++
		return b
	}
	return simIdleByte
}

// Status returns the constant status bits of the simulated MCU.
func (s *Simulator) Status() byte {
	return s.status
}

// Buffer returns a copy of the command buffer.
func (s *Simulator) Buffer() [simBufferSize]byte {
	return s.buffer
}

// InputSize returns the number of command bytes buffered.
func (s *Simulator) InputSize() int { return s.inputSize }

// OutputCursor returns the index of the next reply byte.
func (s *Simulator) OutputCursor() int { return s.outputCursor }

// OutputLen returns the length of the current reply.
func (s *Simulator) OutputLen() int { return s.outputLen }

// KeyPosition returns the keystream index, or -1 when waiting for an opcode.
func (s *Simulator) KeyPosition() int { return s.keys.Position() }

// NewKeystream returns a fresh keystream matching this simulator's key, for
// use by whatever plays the main CPU's side.
func (s *Simulator) NewKeystream() Keystream {
	return NewKeystream(s.keys.table)
}

// commandHandler computes a reply in place and returns its length.
type commandHandler func(s *Simulator) int

var commandHandlers = map[byte]commandHandler{
	cmdChecksum:    (*Simulator).romChecksum,
	cmdSound:       (*Simulator).soundCommand,
	cmdJoystick:    (*Simulator).joystickDirection,
	cmdEnemyHealth: (*Simulator).enemyHealth,
	cmdStageConst:  (*Simulator).stageConstant,
	cmdEnemyType:   (*Simulator).enemyType,
	cmdDifficulty:  (*Simulator).difficulty,
	cmdTimer:       (*Simulator).stageTimer,
}

// process runs the buffered command. The opcode in buffer[0] selects the
// handler; arguments sit at fixed offsets after it.
func (s *Simulator) process() {
	s.inputSize = 0
	s.outputCursor = 0
	s.keys.Rearm()

	handler, ok := commandHandlers[s.buffer[0]]
	if !ok {
		// 0x0D halts the real MCU after a failed ROM check.
		logger.Logf(logTag, "unknown MCU command: %02x", s.buffer[0])
		s.outputLen = 0
		return
	}
	s.outputLen = handler(s)
}

func (s *Simulator) romChecksum() int {
	s.buffer[0] = s.checksum
	return 1
}

func (s *Simulator) soundCommand() int {
	code := s.buffer[1]
	s.buffer[0] = 1
	s.buffer[1] = s.tables.SoundCommand[code]
	return 2
}

func (s *Simulator) joystickDirection() int {
	bits := s.buffer[2]
	s.buffer[0] = 1
	s.buffer[1] = s.tables.Joystick[bits&0x0F]
	return 2
}

func (s *Simulator) enemyHealth() int {
	difficulty := int(s.buffer[2])
	enemyType := s.buffer[3]

	var health int
	if enemyType <= 4 {
		health = 0x18 + difficulty*2
		if health > 0x40 {
			health = 0x40
		}
	} else {
		health = 0x06 + difficulty*2
		if health > 0x20 {
			health = 0x20
		}
	}
	logger.Logf(logTag, "e_type:0x%02x diff:0x%02x -> 0x%02x", enemyType, difficulty, health)

	s.buffer[0] = 1
	s.buffer[1] = byte(health)
	return 2
}

// stageConstant ignores its stage argument. The firmware for this command
// was never observed, so the fixed reply is kept as is.
func (s *Simulator) stageConstant() int {
	s.buffer[0] = 2
	s.buffer[1] = 0x20
	s.buffer[2] = 0x78
	return 3
}

func (s *Simulator) enemyType() int {
	stage := int(s.buffer[2] & 0x03)
	slot := int(s.buffer[3])

	offset := stage*enemyTypesPerStage + slot
	if stage >= 2 {
		offset--
	}

	var enemyType byte
	if offset < len(s.tables.EnemyType) {
		enemyType = s.tables.EnemyType[offset]
	}

	s.buffer[0] = 1
	s.buffer[1] = enemyType
	return 2
}

func (s *Simulator) difficulty() int {
	dip := s.buffer[2] & 0x03
	stage := s.buffer[3]

	// 8-bit arithmetic throughout; values above 0x21 land in 0xE2 and up.
	result := s.tables.Difficulty[dip]
	if stage == 0 {
		result--
	}
	result += stage / 4
	if result > 0x21 {
		result += 0xC0
	}

	s.buffer[0] = 1
	s.buffer[1] = result
	return 2
}

// stageTimer replies with three bytes; buffer[1] keeps whatever the
// command left there.
func (s *Simulator) stageTimer() int {
	dip := s.buffer[4] & 0x03
	timer := s.tables.Timer[dip]

	s.buffer[0] = 3
	s.buffer[2] = byte(timer >> 8)
	s.buffer[3] = byte(timer)
	return 4
}
