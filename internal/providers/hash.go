package providers

import (
	"crypto/sha256"
	"encoding/binary"
)

// HashEmbedding derives a deterministic pseudo-embedding from the text alone.
// It is the terminal fallback of the embedding chain: a stable hash of the
// input expanded to the target dimension by repeated sub-hash slicing, each
// slice mapped into [-1, 1]. The same text always yields the same vector, so
// retrieval stays self-consistent even with every network provider down.
func HashEmbedding(text string, dim int) []float32 {
	if dim <= 0 {
		return nil
	}
	seed := sha256.Sum256([]byte(text))
	vec := make([]float32, dim)
	var block [32]byte
	counter := make([]byte, 4)
	for i := 0; i < dim; i++ {
		if i%8 == 0 {
			binary.BigEndian.PutUint32(counter, uint32(i/8))
			block = sha256.Sum256(append(seed[:], counter...))
		}
		u := binary.BigEndian.Uint32(block[(i%8)*4 : (i%8)*4+4])
		vec[i] = float32(u%2001)/1000.0 - 1.0
	}
	return vec
}
