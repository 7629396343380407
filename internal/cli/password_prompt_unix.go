//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// readSecretLine reads one line from a terminal with echo turned off.
func readSecretLine(stdin *os.File) (string, error) {
	if stdin == nil {
		return "", errors.New("stdin unavailable")
	}

	fd := int(stdin.Fd())
	original, err := unix.IoctlGetTermios(fd, getTermiosRequest)
	if err != nil {
		return "", fmt.Errorf("stdin is not a terminal: %w", err)
	}
	silenced := *original
	silenced.Lflag &^= unix.ECHO

	if err := unix.IoctlSetTermios(fd, setTermiosRequest, &silenced); err != nil {
		return "", fmt.Errorf("disable echo: %w", err)
	}
	defer func() {
		_ = unix.IoctlSetTermios(fd, setTermiosRequest, original)
	}()

	return readPromptLine(stdin)
}
