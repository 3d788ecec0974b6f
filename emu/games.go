package emu

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownGame is returned when a game name is not in the table.
var ErrUnknownGame = errors.New("unknown game")

// MainMap holds the main CPU addresses of the MCU ports.
type MainMap struct {
	DataRead   uint16 // MCU -> main byte
	DataWrite  uint16 // main -> MCU byte
	ResetRead  uint16 // MCU reset (status wiring) or comm reset (ready/accept)
	StatusPort uint16 // input port carrying the status bits; read by the host
}

// Firmware identifies the MCU internal ROM image of a game.
type Firmware struct {
	Name  string
	Size  int
	CRC32 uint32
}

// Game describes the MCU wiring of one ROM set.
type Game struct {
	Name         string
	Description  string
	Year         int
	Manufacturer string
	Parent       string

	Handshake   Handshake
	Mode        Mode
	Map         MainMap
	StatusShift uint // position of the two status bits in StatusPort

	Sim      *SimConfig // ModeSimulated only
	Firmware *Firmware  // ModeReal only
}

// clone returns a deep copy of g.
func (g *Game) clone() *Game {
	c := *g
	if g.Sim != nil {
		sim := *g.Sim
		sim.Keystream = append([]byte(nil), g.Sim.Keystream...)
		sim.Tables = g.Sim.Tables.clone()
		c.Sim = &sim
	}
	if g.Firmware != nil {
		fw := *g.Firmware
		c.Firmware = &fw
	}
	return &c
}

// StatusMask returns the bits of the status port owned by the MCU.
func (g *Game) StatusMask() byte {
	return statusIdle << g.StatusShift
}

// Config returns the MCU configuration for g.
func (g *Game) Config(line InterruptLine) Config {
	return Config{
		Handshake: g.Handshake,
		Mode:      g.Mode,
		Sim:       g.Sim,
		Line:      line,
	}
}

var renegadeMap = MainMap{
	DataRead:   0x3804,
	DataWrite:  0x3804,
	ResetRead:  0x3805,
	StatusPort: 0x3802,
}

var xainMap = MainMap{
	DataRead:   0x3A04,
	DataWrite:  0x3A0E,
	ResetRead:  0x3A06,
	StatusPort: 0x3A05,
}

// renegadeFirmware is the MC68705P5 dump from the Renegade board.
var renegadeFirmware = &Firmware{Name: "nz-5.ic97", Size: 0x800, CRC32: 0x32E47560}

// xainFirmware is the MC68705P3 dump shared by all Xain'd Sleena sets.
var xainFirmware = &Firmware{Name: "pz-0.113", Size: 0x800, CRC32: 0xA432A907}

var kunioKunSim = &SimConfig{
	Checksum:  0x85,
	Keystream: kunioKunKeystream,
	Status:    0x01,
	Tables:    &kunioKunTables,
}

var games = map[string]*Game{
	"renegade": {
		Name:         "renegade",
		Description:  "Renegade (US)",
		Year:         1986,
		Manufacturer: "Technos Japan (Taito America license)",
		Handshake:    HandshakeStatus,
		Mode:         ModeReal,
		Map:          renegadeMap,
		StatusShift:  4,
		Firmware:     renegadeFirmware,
	},
	"kuniokun": {
		Name:         "kuniokun",
		Description:  "Nekketsu Kouha Kunio-kun (Japan)",
		Year:         1986,
		Manufacturer: "Technos Japan",
		Parent:       "renegade",
		Handshake:    HandshakeStatus,
		Mode:         ModeSimulated,
		Map:          renegadeMap,
		StatusShift:  4,
		Sim:          kunioKunSim,
	},
	"kuniokunb": {
		Name:         "kuniokunb",
		Description:  "Nekketsu Kouha Kunio-kun (Japan bootleg)",
		Year:         1986,
		Manufacturer: "bootleg",
		Parent:       "renegade",
		Handshake:    HandshakeStatus,
		Mode:         ModeAbsent,
		Map:          renegadeMap,
		StatusShift:  4,
	},
	"xsleena": {
		Name:         "xsleena",
		Description:  "Xain'd Sleena (World)",
		Year:         1986,
		Manufacturer: "Technos Japan (Taito license)",
		Handshake:    HandshakeReadyAccept,
		Mode:         ModeReal,
		Map:          xainMap,
		StatusShift:  3,
		Firmware:     xainFirmware,
	},
	"xsleenaj": {
		Name:         "xsleenaj",
		Description:  "Xain'd Sleena (Japan)",
		Year:         1986,
		Manufacturer: "Technos Japan",
		Parent:       "xsleena",
		Handshake:    HandshakeReadyAccept,
		Mode:         ModeReal,
		Map:          xainMap,
		StatusShift:  3,
		Firmware:     xainFirmware,
	},
	"solrwarr": {
		Name:         "solrwarr",
		Description:  "Solar-Warrior (US)",
		Year:         1986,
		Manufacturer: "Technos Japan (Taito license)",
		Parent:       "xsleena",
		Handshake:    HandshakeReadyAccept,
		Mode:         ModeReal,
		Map:          xainMap,
		StatusShift:  3,
		Firmware:     xainFirmware,
	},
	"xsleenab": {
		Name:         "xsleenab",
		Description:  "Xain'd Sleena (bootleg)",
		Year:         1986,
		Manufacturer: "bootleg",
		Parent:       "xsleena",
		Handshake:    HandshakeReadyAccept,
		Mode:         ModeAbsent,
		Map:          xainMap,
		StatusShift:  3,
	},
	"xsleenaba": {
		Name:         "xsleenaba",
		Description:  "Xain'd Sleena (bootleg, bugfixed)",
		Year:         1987,
		Manufacturer: "bootleg",
		Parent:       "xsleena",
		Handshake:    HandshakeReadyAccept,
		Mode:         ModeAbsent,
		Map:          xainMap,
		StatusShift:  3,
	},
}

// GameByName returns a copy of the game with the given short name.
func GameByName(name string) (*Game, error) {
	g, ok := games[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, name)
	}
	return g.clone(), nil
}

// Games returns copies of every supported game sorted by name.
func Games() []*Game {
	list := make([]*Game, 0, len(games))
	for _, g := range games {
		list = append(list, g.clone())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}
