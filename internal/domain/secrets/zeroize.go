package secrets

// ZeroizingBytes wraps key material, decrypted payloads, or any other buffer
// that must not linger in memory once consumed. Callers defer Zero()
// immediately after obtaining one.
type ZeroizingBytes struct {
	value []byte
}

// NewZeroizingBytes wraps value in a ZeroizingBytes.
func NewZeroizingBytes(value []byte) ZeroizingBytes {
	return ZeroizingBytes{value: value}
}

// Value returns the wrapped buffer. The caller must not retain it past a
// call to Zero.
func (z ZeroizingBytes) Value() []byte {
	return z.value
}

// Zero overwrites the backing array with zeroes.
func (z *ZeroizingBytes) Zero() {
	for i := range z.value {
		z.value[i] = 0
	}
}
