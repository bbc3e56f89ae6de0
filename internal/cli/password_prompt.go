package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var errEmptyPassword = errors.New("password is empty")

// PasswordPrompt reads secrets from a terminal with echo disabled. When the
// input is not a terminal it falls back to reading plain lines.
type PasswordPrompt struct {
	stdin      *os.File
	lines      *bufio.Reader
	out        io.Writer
	readNoEcho func(*os.File) ([]byte, error)
}

func NewPasswordPrompt(stdin *os.File, out io.Writer) *PasswordPrompt {
	return &PasswordPrompt{
		stdin:      stdin,
		lines:      bufio.NewReader(stdin),
		out:        out,
		readNoEcho: readPasswordNoEcho,
	}
}

func (prompt *PasswordPrompt) Read(label string) (string, error) {
	fmt.Fprint(prompt.out, label)

	secret, err := prompt.readNoEcho(prompt.stdin)
	if err == nil {
		fmt.Fprintln(prompt.out)
	} else {
		secret, err = readPasswordLine(prompt.lines)
		if err != nil {
			return "", err
		}
	}

	if len(secret) == 0 {
		return "", errEmptyPassword
	}
	return string(secret), nil
}

// readPasswordLine returns one line without its terminator. A final line
// without a newline is accepted.
func readPasswordLine(reader *bufio.Reader) ([]byte, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return nil, err
		}
		if line == "" {
			return nil, io.ErrUnexpectedEOF
		}
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
