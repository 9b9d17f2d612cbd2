package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

// BlockSize is the cipher block size; every ciphertext block and the IV
// are exactly this long.
const BlockSize = aes.BlockSize

var (
	ErrInvalidKeySize  = errors.New("crypto: invalid key size for AES-256")
	ErrPadding         = errors.New("crypto: invalid padding after decryption")
	ErrInvalidIVSize   = errors.New("crypto: invalid IV size")
	ErrMisalignedBlock = errors.New("crypto: ciphertext block has wrong size")
)

// Encrypt encrypts plaintext under key using AES-256-CBC with PKCS#7
// padding and a fresh random IV. The ciphertext is returned split into
// BlockSize-sized blocks; the padded input always produces at least one.
func Encrypt(key, plaintext []byte) (iv []byte, blocks [][]byte, err error) {
	block, err := newCipher(key)
	if err != nil {
		return nil, nil, err
	}

	iv = make([]byte, BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, nil, err
	}

	padded := pad(plaintext)
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)

	blocks = make([][]byte, 0, len(ct)/BlockSize)
	for i := 0; i < len(ct); i += BlockSize {
		blocks = append(blocks, ct[i:i+BlockSize])
	}
	return iv, blocks, nil
}

// Decrypt reverses Encrypt. A structurally invalid pad fails with
// ErrPadding; with no MAC in the scheme this is the sole integrity signal,
// so it must never be collapsed into a silent garbage return.
func Decrypt(key, iv []byte, blocks [][]byte) ([]byte, error) {
	block, err := newCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != BlockSize {
		return nil, ErrInvalidIVSize
	}
	if len(blocks) == 0 {
		return nil, ErrPadding
	}

	ct := make([]byte, 0, len(blocks)*BlockSize)
	for _, b := range blocks {
		if len(b) != BlockSize {
			return nil, ErrMisalignedBlock
		}
		ct = append(ct, b...)
	}

	padded := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ct)
	return unpad(padded)
}

func newCipher(key []byte) (cipher.Block, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	return aes.NewCipher(key)
}

// pad appends PKCS#7 padding; always adds at least one byte so that
// unpad is unambiguous.
func pad(data []byte) []byte {
	n := BlockSize - len(data)%BlockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func unpad(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%BlockSize != 0 {
		return nil, ErrPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > BlockSize || n > len(data) {
		return nil, ErrPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrPadding
		}
	}
	return data[:len(data)-n], nil
}
