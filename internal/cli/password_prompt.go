package cli

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// readPromptLine returns the first line of reader without its line ending.
func readPromptLine(reader io.Reader) (string, error) {
	line, err := bufio.NewReader(reader).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
