package emu

import (
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"
)

func TestSerializeSize(t *testing.T) {
	b, _ := newTestBoard(t, "kuniokun")
	state, err := b.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if len(state) != SerializeSize {
		t.Errorf("expected %d bytes, got %d", SerializeSize, len(state))
	}
}

func TestSerializeDeserializeRoundTrip_MidCommand(t *testing.T) {
	b, _ := newTestBoard(t, "kuniokun")

	ks := b.MCU().Simulator().NewKeystream()
	cmd := ks.Encode([]byte{cmdDifficulty, 0x00, 0x01, 0x08})
	b.WriteMain(0x3804, cmd[0])
	b.WriteMain(0x3804, cmd[1])

	state, err := b.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	before := simSnapshot(b.MCU().Simulator())

	// Finish the command, then rewind and finish it again.
	b.WriteMain(0x3804, cmd[2])
	b.WriteMain(0x3804, cmd[3])
	first := []byte{readData(b), readData(b)}

	if err := b.Deserialize(state); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if diff := deep.Equal(simSnapshot(b.MCU().Simulator()), before); diff != nil {
		t.Fatalf("simulator not restored: %v\n%s", diff, spew.Sdump(b.MCU().Simulator()))
	}

	b.WriteMain(0x3804, cmd[2])
	b.WriteMain(0x3804, cmd[3])
	second := []byte{readData(b), readData(b)}

	if diff := deep.Equal(second, first); diff != nil {
		t.Errorf("replayed reply differs: %v", diff)
	}
	if diff := deep.Equal(first, []byte{0x01, 0x05}); diff != nil {
		t.Errorf("unexpected reply: %v", diff)
	}
}

func readData(b *Board) byte {
	v, _ := b.ReadMain(b.game.Map.DataRead)
	return v
}

// simSnapshot collects the simulator's saved state for comparison.
func simSnapshot(s *Simulator) []int {
	snap := []int{s.InputSize(), s.OutputCursor(), s.OutputLen(), s.KeyPosition()}
	for _, v := range s.Buffer() {
		snap = append(snap, int(v))
	}
	return snap
}

func TestSerializeDeserializeRoundTrip_Link(t *testing.T) {
	b, _ := newTestBoard(t, "renegade")
	b.WriteMain(0x3804, 0x42)
	b.WriteMCU(0x004, 0x0F)
	b.WriteMCU(0x005, pbLatch|pbSend)
	b.WriteMCU(0x000, 0x77)
	b.WriteMCU(0x001, pbSend)

	state, err := b.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	link := b.MCU().Link()
	ports := b.MCU().ports

	b.Reset()
	if err := b.Deserialize(state); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}

	if b.MCU().Link() != link {
		t.Errorf("link: expected %+v, got %+v", link, b.MCU().Link())
	}
	if b.MCU().ports != ports {
		t.Errorf("ports: expected %+v, got %+v", ports, b.MCU().ports)
	}
}

func TestVerifyState_ValidState(t *testing.T) {
	b, _ := newTestBoard(t, "xsleena")
	state, err := b.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if err := b.VerifyState(state); err != nil {
		t.Errorf("VerifyState should pass for valid state: %v", err)
	}
}

func TestVerifyState_Errors(t *testing.T) {
	b, _ := newTestBoard(t, "kuniokun")
	good, err := b.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(s []byte) []byte
		want   string
	}{
		{"short", func(s []byte) []byte { return s[:SerializeSize-1] }, "save state too short"},
		{"magic", func(s []byte) []byte { s[0] = 'X'; return s }, "invalid save state magic"},
		{"version", func(s []byte) []byte {
			binary.LittleEndian.PutUint16(s[12:14], stateVersion+1)
			return s
		}, "unsupported save state version"},
		{"game", func(s []byte) []byte {
			binary.LittleEndian.PutUint32(s[14:18], crc32.ChecksumIEEE([]byte("renegade")))
			return s
		}, "save state is for a different game"},
		{"data", func(s []byte) []byte { s[stateHeaderSize+1] ^= 0xFF; return s }, "save state data is corrupted"},
	}

	for _, tt := range tests {
		state := tt.mutate(append([]byte(nil), good...))
		err := b.VerifyState(state)
		if err == nil || err.Error() != tt.want {
			t.Errorf("%s: expected %q, got %v", tt.name, tt.want, err)
		}
		if err := b.Deserialize(state); err == nil {
			t.Errorf("%s: Deserialize accepted a bad state", tt.name)
		}
	}
}

func TestMCUSerialize_BufferTooSmall(t *testing.T) {
	m := newSimMCU(t)
	buf := make([]byte, MCUSerializeSize-1)
	if err := m.Serialize(buf); err == nil {
		t.Error("expected error for short buffer")
	}
	if err := m.Deserialize(buf); err == nil {
		t.Error("expected error for short buffer")
	}
}

func TestMCUDeserialize_FutureVersion(t *testing.T) {
	m := newSimMCU(t)
	buf := make([]byte, MCUSerializeSize)
	if err := m.Serialize(buf); err != nil {
		t.Fatal(err)
	}
	buf[0] = mcuSerializeVersion + 1
	if err := m.Deserialize(buf); err == nil {
		t.Error("expected version error")
	}
}

func TestMCUDeserialize_ClampsIndices(t *testing.T) {
	m := newSimMCU(t)
	buf := make([]byte, MCUSerializeSize)
	if err := m.Serialize(buf); err != nil {
		t.Fatal(err)
	}
	buf[MCUSerializeSize-4] = 0xFF // input size
	buf[MCUSerializeSize-1] = 0x7F // key

	if err := m.Deserialize(buf); err != nil {
		t.Fatal(err)
	}
	s := m.Simulator()
	if s.InputSize() != simBufferSize {
		t.Errorf("expected input size %d, got %d", simBufferSize, s.InputSize())
	}
	if s.KeyPosition() >= s.keys.Len() {
		t.Errorf("key %d outside table", s.KeyPosition())
	}
}

func TestSaveFields(t *testing.T) {
	link := []string{
		"from_main", "from_mcu", "main_sent", "mcu_sent",
		"ddr_a", "ddr_b", "ddr_c",
		"port_a_out", "port_b_out", "port_c_out",
		"port_a_in", "port_b_in", "port_c_in",
	}
	names := func(fields []SaveField) []string {
		var out []string
		for _, f := range fields {
			out = append(out, f.Name)
		}
		return out
	}

	m, _ := newRealMCU(t, HandshakeStatus)
	if diff := deep.Equal(names(m.SaveFields()), link); diff != nil {
		t.Errorf("real MCU fields: %v", diff)
	}

	s := newSimMCU(t)
	s.WriteData(cmdSound)
	want := append(append([]string(nil), link...),
		"mcu_buffer", "mcu_input_size", "mcu_output_byte", "mcu_output_len", "mcu_key")
	fields := s.SaveFields()
	if diff := deep.Equal(names(fields), want); diff != nil {
		t.Errorf("simulated MCU fields: %v", diff)
	}

	last := fields[len(fields)-1]
	if last.Value != 0 {
		t.Errorf("mcu_key: expected 0, got %v", last.Value)
	}
	buf := fields[len(fields)-5].Value.([simBufferSize]byte)
	if buf[0] != cmdSound {
		t.Errorf("mcu_buffer[0]: expected 0x26, got 0x%02X", buf[0])
	}
}
