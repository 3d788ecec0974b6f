package emu

import (
	"errors"
	"testing"

	"github.com/go-test/deep"
)

func TestGameByName_Unknown(t *testing.T) {
	if _, err := GameByName("ddragon"); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("expected ErrUnknownGame, got %v", err)
	}
}

func TestGames_Sorted(t *testing.T) {
	var names []string
	for _, g := range Games() {
		names = append(names, g.Name)
	}
	want := []string{
		"kuniokun", "kuniokunb", "renegade", "solrwarr",
		"xsleena", "xsleenab", "xsleenaba", "xsleenaj",
	}
	if diff := deep.Equal(names, want); diff != nil {
		t.Errorf("game list: %v", diff)
	}
}

func TestGames_Consistent(t *testing.T) {
	for _, g := range Games() {
		switch g.Mode {
		case ModeReal:
			if g.Firmware == nil || g.Firmware.Size != 0x800 {
				t.Errorf("%s: real MCU needs a 0x800 byte firmware", g.Name)
			}
		case ModeSimulated:
			if g.Sim == nil {
				t.Errorf("%s: simulated MCU needs tables", g.Name)
			}
		}
		if g.Parent != "" {
			if _, err := GameByName(g.Parent); err != nil {
				t.Errorf("%s: parent %v", g.Name, err)
			}
		}
		if _, err := NewMCU(g.Config(nil)); err != nil {
			t.Errorf("%s: %v", g.Name, err)
		}
	}
}

func TestGame_StatusMask(t *testing.T) {
	tests := map[string]byte{
		"renegade":  0x30,
		"kuniokun":  0x30,
		"kuniokunb": 0x30,
		"xsleena":   0x18,
		"xsleenaba": 0x18,
	}
	for name, want := range tests {
		g, err := GameByName(name)
		if err != nil {
			t.Fatal(err)
		}
		if got := g.StatusMask(); got != want {
			t.Errorf("%s: expected 0x%02X, got 0x%02X", name, want, got)
		}
	}
}

func TestGame_KunioKunSim(t *testing.T) {
	g, _ := GameByName("kuniokun")
	if g.Sim.Checksum != 0x85 || g.Sim.Status != 0x01 {
		t.Errorf("unexpected sim config %+v", g.Sim)
	}
	if len(g.Sim.Keystream) != 0x2A {
		t.Errorf("expected key length 0x2A, got 0x%X", len(g.Sim.Keystream))
	}
}

func TestGameByName_ReturnsCopy(t *testing.T) {
	g, _ := GameByName("kuniokun")
	g.Sim.Checksum = 0x11
	g.Sim.Tables.Joystick[5] = 0x77
	g.Sim.Keystream[0] ^= 0xFF
	g.Map.DataRead = 0

	b, _ := newTestBoard(t, "kuniokun")
	if b.Game().Map.DataRead != 0x3804 {
		t.Errorf("address map changed: 0x%04X", b.Game().Map.DataRead)
	}
	ks := b.MCU().Simulator().NewKeystream()
	for _, v := range ks.Encode([]byte{cmdJoystick, 0x00, 0x05}) {
		b.WriteMain(0x3804, v)
	}
	if got := []byte{readData(b), readData(b)}; got[0] != 0x01 || got[1] != 0x02 {
		t.Errorf("joystick reply: expected [01 02], got % X", got)
	}

	c, _ := newTestBoard(t, "kuniokun")
	c.WriteMain(0x3804, cmdChecksum)
	if got := readData(c); got != 0x85 {
		t.Errorf("checksum: expected 0x85, got 0x%02X", got)
	}

	r, _ := GameByName("renegade")
	r.Firmware.Size = 1
	if fw := games["renegade"].Firmware; fw.Size != 0x800 {
		t.Errorf("firmware descriptor changed: %d", fw.Size)
	}
}

func TestBoard_IgnoresTableEdits(t *testing.T) {
	b, _ := newTestBoard(t, "kuniokun")

	saved := kunioKunTables.Joystick[5]
	kunioKunTables.Joystick[5] = 0x77
	defer func() { kunioKunTables.Joystick[5] = saved }()

	ks := b.MCU().Simulator().NewKeystream()
	for _, v := range ks.Encode([]byte{cmdJoystick, 0x00, 0x05}) {
		b.WriteMain(0x3804, v)
	}
	if got := []byte{readData(b), readData(b)}; got[1] != 0x02 {
		t.Errorf("existing board saw table edit: % X", got)
	}
}
