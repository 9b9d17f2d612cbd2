package crypto

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"
)

// Permute deterministically reorders ciphertext blocks under (key, iv).
// Each index i in [0, len(blocks)) gets the score
//
//	score(i) = uint64(SHA-256(key || iv || uint32be(i))[:8])
//
// and the blocks are emitted in ascending score order, ties broken by the
// original index. The permutation depends only on (key, iv, length), never
// on block contents, so the receiver recomputes it instead of receiving it.
func Permute(key, iv []byte, blocks [][]byte) [][]byte {
	order := permutationOrder(key, iv, len(blocks))
	out := make([][]byte, len(blocks))
	for pos, src := range order {
		out[pos] = blocks[src]
	}
	return out
}

// Invert restores the original block order produced by Permute under the
// same (key, iv). Invert(k, iv, Permute(k, iv, b)) == b for any b.
func Invert(key, iv []byte, permuted [][]byte) [][]byte {
	order := permutationOrder(key, iv, len(permuted))
	out := make([][]byte, len(permuted))
	for pos, src := range order {
		out[src] = permuted[pos]
	}
	return out
}

// permutationOrder returns the source index for each output position:
// output[pos] = input[order[pos]].
func permutationOrder(key, iv []byte, n int) []int {
	scores := make([]uint64, n)
	buf := make([]byte, 0, len(key)+len(iv)+4)
	buf = append(buf, key...)
	buf = append(buf, iv...)
	prefix := len(buf)
	for i := 0; i < n; i++ {
		var idx [4]byte
		binary.BigEndian.PutUint32(idx[:], uint32(i))
		sum := sha256.Sum256(append(buf[:prefix], idx[:]...))
		scores[i] = binary.BigEndian.Uint64(sum[:8])
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	// Index tie-break keeps the order well-defined if two scores collide.
	sort.Slice(order, func(a, b int) bool {
		if scores[order[a]] != scores[order[b]] {
			return scores[order[a]] < scores[order[b]]
		}
		return order[a] < order[b]
	})
	return order
}
