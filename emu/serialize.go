package emu

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// Save state format constants
const (
	stateVersion    = 1
	stateMagic      = "eTMCUState\x00\x00"
	stateHeaderSize = 22 // magic(12) + version(2) + gameCRC(4) + dataCRC(4)
)

// SerializeSize is the total size in bytes of a board save state.
const SerializeSize = stateHeaderSize + MCUSerializeSize

// boolByte converts a bool to a uint8 (0 or 1).
func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// gameCRC identifies the game a save state belongs to.
func (b *Board) gameCRC() uint32 {
	return crc32.ChecksumIEEE([]byte(b.game.Name))
}

// Serialize creates a save state and returns it as a byte slice.
func (b *Board) Serialize() ([]byte, error) {
	data := make([]byte, SerializeSize)

	// Write header
	copy(data[0:12], stateMagic)
	binary.LittleEndian.PutUint16(data[12:14], stateVersion)
	binary.LittleEndian.PutUint32(data[14:18], b.gameCRC())

	offset := stateHeaderSize

	// MCU
	if err := b.mcu.Serialize(data[offset:]); err != nil {
		return nil, err
	}

	// Calculate and write data CRC32 (over everything after header)
	dataCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	binary.LittleEndian.PutUint32(data[18:22], dataCRC)

	return data, nil
}

// Deserialize restores board state from a save state byte slice.
// Trace settings and firmware are not part of the state.
func (b *Board) Deserialize(data []byte) error {
	if err := b.VerifyState(data); err != nil {
		return err
	}

	offset := stateHeaderSize

	// MCU
	return b.mcu.Deserialize(data[offset:])
}

// VerifyState checks if a save state is valid without loading it.
func (b *Board) VerifyState(data []byte) error {
	if len(data) < SerializeSize {
		return errors.New("save state too short")
	}

	if string(data[0:12]) != stateMagic {
		return errors.New("invalid save state magic")
	}

	version := binary.LittleEndian.Uint16(data[12:14])
	if version > stateVersion {
		return errors.New("unsupported save state version")
	}

	gameCRC := binary.LittleEndian.Uint32(data[14:18])
	if gameCRC != b.gameCRC() {
		return errors.New("save state is for a different game")
	}

	expectedCRC := binary.LittleEndian.Uint32(data[18:22])
	actualCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	if expectedCRC != actualCRC {
		return errors.New("save state data is corrupted")
	}

	return nil
}
