// Package armor adds Reed-Solomon parity blocks to an encrypted package so
// it survives lost ciphertext blocks in transit.
//
// Every ciphertext block is already a uniform fixed-size shard, so the
// blocks map directly onto Reed-Solomon data shards. Parity is computed
// over the permuted blocks: recovery happens before the permutation is
// inverted, and the parity layer learns nothing about block order.
//
// This is erasure protection only. A silently corrupted block is not
// detected here; that surfaces later as a padding failure.
package armor

import (
	"errors"

	"github.com/klauspost/reedsolomon"
)

var (
	ErrInvalidParity     = errors.New("armor: parity shard count must be positive")
	ErrTooManyShards     = errors.New("armor: block and parity count exceeds the shard limit")
	ErrTooManyLost       = errors.New("armor: too many blocks lost, cannot recover")
	ErrParityMismatch    = errors.New("armor: parity shard count does not match codec")
	ErrNothingToProtect  = errors.New("armor: no blocks to protect")
	ErrShardSizeMismatch = errors.New("armor: shard sizes do not match")
)

// maxShards is the Reed-Solomon limit on data+parity shards.
const maxShards = 256

// Codec computes and consumes parity for a fixed parity shard count. The
// data shard count follows each package's block count.
type Codec struct {
	parity int
}

// NewCodec creates a codec producing parity parity shards per package.
// A package survives the loss of up to that many blocks.
func NewCodec(parity int) (*Codec, error) {
	if parity <= 0 {
		return nil, ErrInvalidParity
	}
	return &Codec{parity: parity}, nil
}

// ParityShards returns the parity shard count.
func (c *Codec) ParityShards() int { return c.parity }

func (c *Codec) encoder(dataShards int) (reedsolomon.Encoder, error) {
	if dataShards <= 0 {
		return nil, ErrNothingToProtect
	}
	if dataShards+c.parity > maxShards {
		return nil, ErrTooManyShards
	}
	return reedsolomon.New(dataShards, c.parity)
}

// Protect computes parity shards for the given blocks. The input blocks
// are not modified.
func (c *Codec) Protect(blocks [][]byte) ([][]byte, error) {
	enc, err := c.encoder(len(blocks))
	if err != nil {
		return nil, err
	}

	size := len(blocks[0])
	shards := make([][]byte, len(blocks)+c.parity)
	for i, b := range blocks {
		if len(b) != size {
			return nil, ErrShardSizeMismatch
		}
		shards[i] = b
	}
	for i := len(blocks); i < len(shards); i++ {
		shards[i] = make([]byte, size)
	}

	if err := enc.Encode(shards); err != nil {
		return nil, err
	}
	return shards[len(blocks):], nil
}

// Recover reconstructs missing (nil) blocks in place using the parity
// shards. Missing parity shards are tolerated too, as long as the total
// number of erasures does not exceed the parity count.
func (c *Codec) Recover(blocks, parity [][]byte) error {
	if len(parity) != c.parity {
		return ErrParityMismatch
	}
	enc, err := c.encoder(len(blocks))
	if err != nil {
		return err
	}

	shards := make([][]byte, len(blocks)+len(parity))
	copy(shards, blocks)
	copy(shards[len(blocks):], parity)

	if err := enc.ReconstructData(shards); err != nil {
		if errors.Is(err, reedsolomon.ErrTooFewShards) {
			return ErrTooManyLost
		}
		return err
	}
	copy(blocks, shards[:len(blocks)])
	return nil
}

// Verify reports whether the parity shards are consistent with the blocks.
func (c *Codec) Verify(blocks, parity [][]byte) (bool, error) {
	if len(parity) != c.parity {
		return false, ErrParityMismatch
	}
	enc, err := c.encoder(len(blocks))
	if err != nil {
		return false, err
	}
	shards := make([][]byte, 0, len(blocks)+len(parity))
	shards = append(shards, blocks...)
	shards = append(shards, parity...)
	return enc.Verify(shards)
}
