package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

var stdinReader *bufio.Reader

func readLine() (string, error) {
	if stdinReader == nil {
		stdinReader = bufio.NewReader(stdin)
	}
	line, err := stdinReader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// prompt asks for a value unless one was given on the command line.
func prompt(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(stderr, "%s: ", label)
	line, err := readLine()
	return strings.TrimSpace(line), err
}

// promptSecret is prompt without echo when stdin is a terminal.
func promptSecret(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(stderr, "%s: ", label)

	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(stderr)
		return string(secret), err
	}
	return readLine()
}
