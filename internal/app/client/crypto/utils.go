package crypto

import (
	"crypto/rand"
	"io"
)

// ClearMemory zeroes sensitive bytes.
func ClearMemory(data []byte) {
	for i := range data {
		data[i] = 0
	}
}

func GenerateRandomBytes(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}
