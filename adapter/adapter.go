package adapter

import (
	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/emtechnos/emu"
)

// Factory creates MCU boards for a host emulator and describes them to its
// frontend. Video, audio and CPU cores come from the host.
type Factory struct{}

// SystemInfo returns system metadata for UI configuration.
func (f *Factory) SystemInfo() emucore.SystemInfo {
	return emucore.SystemInfo{
		Name:        "emtechnos",
		ConsoleName: "Technos 68705 MCU",
		Extensions:  []string{".zip", ".7z"},
		CoreOptions: []emucore.CoreOption{
			{
				Key:         "mcu_trace",
				Label:       "MCU Trace",
				Description: "Log every main CPU access to the MCU ports",
				Type:        emucore.CoreOptionBool,
				Default:     "false",
				Category:    emucore.CoreOptionCategoryCore,
			},
		},
		DataDirName:   "emtechnos",
		CoreName:      emu.Name,
		CoreVersion:   emu.Version,
		SerializeSize: emu.SerializeSize,
	}
}

// GameNames returns the short names of every supported ROM set.
func (f *Factory) GameNames() []string {
	games := emu.Games()
	names := make([]string, len(games))
	for i, g := range games {
		names[i] = g.Name
	}
	return names
}

// CreateBoard creates the board for game. romPath is the ROM set holding the
// MCU firmware; it is only read for games with a real MCU.
func (f *Factory) CreateBoard(game string, romPath string, line emu.InterruptLine) (*emu.Board, error) {
	g, err := emu.GameByName(game)
	if err != nil {
		return nil, err
	}

	var firmware []byte
	if g.Mode == emu.ModeReal {
		firmware, err = emu.LoadFirmware(romPath, g)
		if err != nil {
			return nil, err
		}
	}
	return emu.NewBoard(g.Name, firmware, line)
}
