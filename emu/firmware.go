package emu

import (
	"errors"
	"fmt"
	"hash/crc32"
	"path/filepath"

	"github.com/user-none/eblitui/romloader"
	"github.com/user-none/emtechnos/logger"
)

var (
	// ErrFirmwareMissing is returned when a real MCU has no firmware image.
	ErrFirmwareMissing = errors.New("MCU firmware missing")

	// ErrFirmwareSize is returned when a firmware image has the wrong size.
	ErrFirmwareSize = errors.New("MCU firmware has the wrong size")

	errNoFirmware = errors.New("game has no MCU firmware")
)

const firmwareLogTag = "firmware"

// LoadFirmware reads the MCU image of g from path. path may be the raw
// image or a ROM set archive (zip, 7z, gzip, rar) containing it.
func LoadFirmware(path string, g *Game) ([]byte, error) {
	fw := g.Firmware
	if fw == nil {
		return nil, fmt.Errorf("%s: %w", g.Name, errNoFirmware)
	}
	if path == "" {
		return nil, fmt.Errorf("%w: %s", ErrFirmwareMissing, fw.Name)
	}

	// Archives are searched for the exact member name. A bare file only
	// needs the right extension.
	data, _, err := romloader.Load(path, []string{fw.Name})
	if errors.Is(err, romloader.ErrUnsupportedFormat) {
		data, _, err = romloader.Load(path, []string{filepath.Ext(fw.Name)})
	}
	if errors.Is(err, romloader.ErrNoFile) {
		return nil, fmt.Errorf("%w: %s not in %s", ErrFirmwareMissing, fw.Name, path)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", fw.Name, err)
	}

	if err := VerifyFirmware(data, g); err != nil {
		return nil, err
	}
	return data, nil
}

// VerifyFirmware checks data against the firmware descriptor of g. A CRC
// mismatch is logged but accepted so that alternate dumps still run.
func VerifyFirmware(data []byte, g *Game) error {
	fw := g.Firmware
	if fw == nil {
		return fmt.Errorf("%s: %w", g.Name, errNoFirmware)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: %s", ErrFirmwareMissing, fw.Name)
	}
	if len(data) != fw.Size {
		return fmt.Errorf("%w: %s is %d bytes, expected %d", ErrFirmwareSize, fw.Name, len(data), fw.Size)
	}

	if crc := crc32.ChecksumIEEE(data); crc != fw.CRC32 {
		logger.Logf(firmwareLogTag, "%s: crc %08x, expected %08x", fw.Name, crc, fw.CRC32)
	}
	return nil
}
