package emu

// keyUnset marks a keystream that is waiting for the opening byte of a
// command. The opening byte is never encrypted.
const keyUnset = -1

// Keystream is the repeating XOR key applied to command arguments sent to
// the simulated MCU. XOR is self-inverse, so the same stream encrypts on the
// main CPU side and decrypts on the MCU side.
type Keystream struct {
	table []byte
	key   int
}

// NewKeystream returns a keystream over table, armed for a new command.
// table must not be empty.
func NewKeystream(table []byte) Keystream {
	t := make([]byte, len(table))
	copy(t, table)
	return Keystream{table: t, key: keyUnset}
}

// Len returns the keystream period.
func (k *Keystream) Len() int {
	return len(k.table)
}

// Armed reports whether the next byte opens a new command.
func (k *Keystream) Armed() bool {
	return k.key == keyUnset
}

// Rearm makes the next byte open a new command.
func (k *Keystream) Rearm() {
	k.key = keyUnset
}

// Open consumes the opening byte of a command and starts the key at 0.
func (k *Keystream) Open() {
	k.key = 0
}

// Position returns the current key index, or -1 when armed.
func (k *Keystream) Position() int {
	return k.key
}

// Seek sets the key index, wrapping it into the table period. A negative
// position arms the stream.
func (k *Keystream) Seek(pos int) {
	if pos < 0 {
		k.key = keyUnset
		return
	}
	k.key = pos % len(k.table)
}

// Apply XORs b with the current key byte and advances the key, wrapping at
// the end of the table. Apply on an armed stream starts from key 0.
func (k *Keystream) Apply(b byte) byte {
	if k.key < 0 {
		k.key = 0
	}
	b ^= k.table[k.key]
	k.key++
	if k.key == len(k.table) {
		k.key = 0
	}
	return b
}

// Encode turns a plaintext command into the byte sequence the main CPU
// writes: the opcode in the clear followed by the encrypted arguments. The
// receiver is left positioned after the last argument.
func (k *Keystream) Encode(cmd []byte) []byte {
	if len(cmd) == 0 {
		return nil
	}
	out := make([]byte, len(cmd))
	out[0] = cmd[0]
	k.Open()
	for i := 1; i < len(cmd); i++ {
		out[i] = k.Apply(cmd[i])
	}
	return out
}
