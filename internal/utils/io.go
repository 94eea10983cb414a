package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadPasswordFrom reads a single line from r and strips the line ending.
// It backs --password-stdin.
func ReadPasswordFrom(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("no password provided on stdin")
	}

	return line, nil
}
