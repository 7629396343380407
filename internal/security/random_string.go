package security

import (
	"crypto/rand"
	"errors"
	"io"
)

const randomBatchOverhead = 2

var (
	errNegativeLength = errors.New("length must be non-negative")
	errAlphabetSize   = errors.New("alphabet must hold 1 to 256 characters")

	randomSource io.Reader = rand.Reader
)

// RandomString draws length characters from alphabet using crypto/rand.
// Bytes at or above the largest multiple of len(alphabet) are discarded, so
// every character is equally likely.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if len(alphabet) == 0 || len(alphabet) > 256 {
		return "", errAlphabetSize
	}
	if length == 0 {
		return "", nil
	}

	size := len(alphabet)
	cutoff := 256 - 256%size
	result := make([]byte, 0, length)
	batch := make([]byte, length*randomBatchOverhead)

	for len(result) < length {
		if _, err := io.ReadFull(randomSource, batch); err != nil {
			return "", err
		}
		for _, value := range batch {
			if int(value) >= cutoff {
				continue
			}
			result = append(result, alphabet[int(value)%size])
			if len(result) == length {
				break
			}
		}
	}
	return string(result), nil
}
