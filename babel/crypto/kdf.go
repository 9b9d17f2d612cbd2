package crypto

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

var ErrDerivation = errors.New("crypto: malformed key derivation context")

// KeySize is the derived symmetric key length (AES-256).
const KeySize = 32

// kdfLabel domain-separates this protocol's keys from any other HKDF use
// of the same secret.
const kdfLabel = "babel/v1/message-key"

// DeriveKey derives the symmetric message key from the raw shared secret,
// bound to the ordered (sender, recipient, sender key, recipient key)
// tuple. The order is the message direction: A→B and B→A derive different
// keys from the same underlying secret, and the receiver must derive with
// the original sender first, not itself.
func DeriveKey(secret []byte, senderName, recipientName string, senderPub, recipientPub [32]byte) ([]byte, error) {
	if len(secret) == 0 || senderName == "" || recipientName == "" {
		return nil, ErrDerivation
	}

	info := make([]byte, 0, len(kdfLabel)+4+len(senderName)+len(recipientName)+64)
	info = append(info, kdfLabel...)
	info = appendLenPrefixed(info, []byte(senderName))
	info = appendLenPrefixed(info, []byte(recipientName))
	info = append(info, senderPub[:]...)
	info = append(info, recipientPub[:]...)

	hk := hkdf.New(sha256.New, secret, nil, info)
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hk, key); err != nil {
		return nil, err
	}
	return key, nil
}

// appendLenPrefixed keeps name boundaries unambiguous in the info string.
func appendLenPrefixed(dst, b []byte) []byte {
	var l [2]byte
	binary.BigEndian.PutUint16(l[:], uint16(len(b)))
	dst = append(dst, l[:]...)
	return append(dst, b...)
}
