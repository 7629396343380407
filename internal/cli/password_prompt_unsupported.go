//go:build !windows && !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package cli

import (
	"errors"
	"os"
)

func readSecretLine(_ *os.File) (string, error) {
	return "", errors.New("interactive password prompt is not supported on this platform")
}
