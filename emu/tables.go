package emu

import (
	"errors"
	"fmt"
)

// CommandTables are the lookup tables of the simulated MCU firmware. They
// are preserved byte for byte; several entries look odd but are what the
// game expects.
type CommandTables struct {
	Timer        [4]uint16 // stage timer by DSW2 difficulty
	SoundCommand [256]byte // sound code -> sound CPU command
	Difficulty   [4]byte   // DSW2 difficulty -> base difficulty
	Joystick     [16]byte  // joystick bits -> direction code
	EnemyType    []byte    // packed per-stage enemy types
}

// enemyTypesPerStage is the stride of the EnemyType table. Stage 1 only has
// seven entries, so stages 2 and 3 are shifted down by one.
const enemyTypesPerStage = 8

// minEnemyTypes is the number of real entries in the packed EnemyType table
// (8 + 7 + 8 + 8).
const minEnemyTypes = 31

// kunioKunTables are the command tables shared by Renegade and Nekketsu
// Kouha Kunio-kun.
var kunioKunTables = CommandTables{
	Timer: [4]uint16{0x4001, 0x5001, 0x1502, 0x0002},
	SoundCommand: [256]byte{
		0xA0, 0xA1, 0xA2, 0x80, 0x81, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87, 0x88, 0x89, 0x8A, 0x8B, 0x8C,
		0x8D, 0x8E, 0x8F, 0x97, 0x96, 0x9B, 0x9A, 0x95, 0x9E, 0x98, 0x90, 0x93, 0x9D, 0x9C, 0xA3, 0x91,
		0x9F, 0x99, 0xA6, 0xAE, 0x94, 0xA5, 0xA4, 0xA7, 0x92, 0xAB, 0xAC, 0xB0, 0xB1, 0xB2, 0xB3, 0xB4,
		0xB5, 0xB6, 0xB7, 0xB8, 0xB9, 0xBA, 0xBB, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x20, 0x20, 0x20,
		0x50, 0x50, 0x90, 0x30, 0x30, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x80, 0xA0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x40, 0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x20, 0x00, 0x00, 0x10, 0x10, 0x00, 0x00, 0x90, 0x30, 0x30, 0x30, 0xB0, 0xB0, 0xB0, 0xB0, 0xF0,
		0xF0, 0xF0, 0xF0, 0xD0, 0xF0, 0x00, 0x00, 0x00, 0x00, 0x10, 0x10, 0x50, 0x30, 0xB0, 0xB0, 0xF0,
		0xF0, 0xF0, 0xF0, 0xF0, 0xF0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10,
		0x10, 0x10, 0x30, 0x30, 0x20, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x0F, 0x0F, 0x0F, 0x0F, 0x0F, 0x0F, 0x0F, 0x0F, 0x0F, 0x0F, 0x0F,
		0x0F, 0x0F, 0x0F, 0x0F, 0x0F, 0x8F, 0x8F, 0x0F, 0x0F, 0x0F, 0x0F, 0x0F, 0x0F, 0x0F, 0x0F, 0x0F,
		0x0F, 0x0F, 0x0F, 0x0F, 0x0F, 0xFF, 0xFF, 0xFF, 0xEF, 0xEF, 0xCF, 0x8F, 0x8F, 0x0F, 0x0F, 0x0F,
	},
	Difficulty: [4]byte{5, 3, 1, 2},
	Joystick:   [16]byte{0, 3, 7, 0, 1, 2, 8, 0, 5, 4, 6, 0, 0, 0, 0, 0},
	EnemyType: []byte{
		0x01, 0x06, 0x06, 0x05, 0x05, 0x05, 0x05, 0x05, // stage 0
		0x02, 0x0A, 0x0A, 0x09, 0x09, 0x09, 0x09,       // stage 1
		0x03, 0x0E, 0x0E, 0x0E, 0x0D, 0x0D, 0x0D, 0x0D, // stage 2
		0x04, 0x12, 0x12, 0x12, 0x12, 0x12, 0x12, 0x12, // stage 3
		0x3D, 0x23, 0x26, 0x0A, 0xB6, 0x11, 0xA4, 0x0F, // trailing ROM bytes
	},
}

// kunioKunKeystream is the command XOR key of Nekketsu Kouha Kunio-kun.
var kunioKunKeystream = []byte{
	0x48, 0x8A, 0x48, 0xA5, 0x01, 0x48, 0xA9, 0x00, 0x85, 0x01, 0xA2, 0x10, 0x26, 0x10, 0x26, 0x11,
	0x26, 0x01, 0xA5, 0x01, 0xC5, 0x00, 0x90, 0x04, 0xE5, 0x00, 0x85, 0x01, 0x26, 0x10, 0x26, 0x11,
	0xCA, 0xD0, 0xED, 0x68, 0x85, 0x01, 0x68, 0xAA, 0x68, 0x60,
}

var (
	errNoTables      = errors.New("command tables missing")
	errEmptyKey      = errors.New("command keystream is empty")
	errShortEnemyTab = errors.New("enemy type table too short")
)

// clone returns a copy of t that shares no memory with it.
func (t *CommandTables) clone() *CommandTables {
	if t == nil {
		return nil
	}
	c := *t
	c.EnemyType = append([]byte(nil), t.EnemyType...)
	return &c
}

// validate checks the tables for shapes the interpreter relies on.
func (t *CommandTables) validate() error {
	if t == nil {
		return errNoTables
	}
	if len(t.EnemyType) < minEnemyTypes {
		return fmt.Errorf("%w: %d entries, need %d", errShortEnemyTab, len(t.EnemyType), minEnemyTypes)
	}
	return nil
}
