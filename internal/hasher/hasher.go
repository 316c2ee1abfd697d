package hasher

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// Digest returns the xxHash64 of data as hex, truncated to hexLen chars
// (0 or out of range keeps all 16). Exports carry it so identical renders
// can be recognised without comparing bytes.
func Digest(data []byte, hexLen int) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], xxhash.Sum64(data))
	full := hex.EncodeToString(b[:])
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}

// Key hashes a string for use as a map key, e.g. an avatar source URL.
func Key(s string) uint64 {
	return xxhash.Sum64String(s)
}
