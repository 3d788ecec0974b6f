package emu

import "errors"

const (
	mcuSerializeVersion = 1
	// MCUSerializeSize is the total bytes needed for MCU serialization.
	// version(1) + fromMain(1) + fromMcu(1) + mainSent(1) + mcuSent(1) +
	// ddr(3) + out(3) + in(3) +
	// simBuffer(6) + simInputSize(1) + simOutputCursor(1) +
	// simOutputLen(1) + simKey(1)
	MCUSerializeSize = 24
)

// SaveField is one named primitive of the MCU state, for hosts that
// register fields with their own save-state machinery.
type SaveField struct {
	Name  string
	Value any // byte, bool, int or [6]byte
}

// SaveFields returns the MCU state as an ordered list of named fields. The
// simulator fields are only present in simulated mode.
func (m *MCU) SaveFields() []SaveField {
	fields := []SaveField{
		{"from_main", m.link.fromMain},
		{"from_mcu", m.link.fromMcu},
		{"main_sent", m.link.mainSent},
		{"mcu_sent", m.link.mcuSent},
		{"ddr_a", m.ports[PortA].ddr},
		{"ddr_b", m.ports[PortB].ddr},
		{"ddr_c", m.ports[PortC].ddr},
		{"port_a_out", m.ports[PortA].out},
		{"port_b_out", m.ports[PortB].out},
		{"port_c_out", m.ports[PortC].out},
		{"port_a_in", m.ports[PortA].in},
		{"port_b_in", m.ports[PortB].in},
		{"port_c_in", m.ports[PortC].in},
	}
	if s := m.sim; s != nil {
		fields = append(fields,
			SaveField{"mcu_buffer", s.buffer},
			SaveField{"mcu_input_size", s.inputSize},
			SaveField{"mcu_output_byte", s.outputCursor},
			SaveField{"mcu_output_len", s.outputLen},
			SaveField{"mcu_key", s.keys.Position()},
		)
	}
	return fields
}

// Serialize writes MCU state to buf. buf must be at least MCUSerializeSize bytes.
func (m *MCU) Serialize(buf []byte) error {
	if len(buf) < MCUSerializeSize {
		return errors.New("MCU serialize buffer too small")
	}

	offset := 0

	// Version
	buf[offset] = mcuSerializeVersion
	offset++

	// Link
	buf[offset] = m.link.fromMain
	offset++
	buf[offset] = m.link.fromMcu
	offset++
	buf[offset] = boolByte(m.link.mainSent)
	offset++
	buf[offset] = boolByte(m.link.mcuSent)
	offset++

	// Ports
	for p := range m.ports {
		buf[offset] = m.ports[p].ddr
		offset++
	}
	for p := range m.ports {
		buf[offset] = m.ports[p].out
		offset++
	}
	for p := range m.ports {
		buf[offset] = m.ports[p].in
		offset++
	}

	// Simulator, zero when not simulated
	var sim Simulator
	sim.keys.key = keyUnset
	if m.sim != nil {
		sim = *m.sim
	}
	offset += copy(buf[offset:], sim.buffer[:])
	buf[offset] = byte(sim.inputSize)
	offset++
	buf[offset] = byte(sim.outputCursor)
	offset++
	buf[offset] = byte(sim.outputLen)
	offset++
	buf[offset] = byte(int8(sim.keys.key))
	offset++

	return nil
}

// Deserialize reads MCU state from buf. buf must be at least MCUSerializeSize bytes.
func (m *MCU) Deserialize(buf []byte) error {
	if len(buf) < MCUSerializeSize {
		return errors.New("MCU deserialize buffer too small")
	}

	offset := 0

	// Version
	version := buf[offset]
	offset++
	if version > mcuSerializeVersion {
		return errors.New("unsupported MCU state version")
	}

	// Link
	m.link.fromMain = buf[offset]
	offset++
	m.link.fromMcu = buf[offset]
	offset++
	m.link.mainSent = buf[offset] != 0
	offset++
	m.link.mcuSent = buf[offset] != 0
	offset++

	// Ports
	for p := range m.ports {
		m.ports[p].ddr = buf[offset]
		offset++
	}
	for p := range m.ports {
		m.ports[p].out = buf[offset]
		offset++
	}
	for p := range m.ports {
		m.ports[p].in = buf[offset]
		offset++
	}

	// Simulator
	if m.sim == nil {
		return nil
	}
	s := m.sim
	offset += copy(s.buffer[:], buf[offset:offset+simBufferSize])
	s.inputSize = clampIndex(buf[offset], simBufferSize)
	offset++
	s.outputCursor = clampIndex(buf[offset], simBufferSize)
	offset++
	s.outputLen = clampIndex(buf[offset], simBufferSize)
	offset++
	s.keys.Seek(int(int8(buf[offset])))
	offset++

	return nil
}

// clampIndex keeps a restored buffer index inside the buffer.
func clampIndex(v byte, limit int) int {
	if int(v) > limit {
		return limit
	}
	return int(v)
}
