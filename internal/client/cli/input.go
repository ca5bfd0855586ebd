package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword reads without echo; replaced in tests.
var readPassword = term.ReadPassword

var errEmptyAnswer = errors.New("answer must not be empty")

// prompter asks for request fields on out and reads the answers from in.
// Questions go to stderr so stdout carries only the command's JSON result.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) prompter {
	if br, ok := in.(*bufio.Reader); ok {
		return prompter{in: br, out: out}
	}
	return prompter{in: bufio.NewReader(in), out: out}
}

// ask prints "<label>: " and returns the trimmed answer. A last line without
// a trailing newline still counts as an answer.
func (p prompter) ask(label string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "%s: ", label); err != nil {
		return "", err
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

// require is ask that refuses a blank answer.
func (p prompter) require(label string) (string, error) {
	answer, err := p.ask(label)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", fmt.Errorf("%s: %w", strings.ToLower(label), errEmptyAnswer)
	}
	return answer, nil
}

// secret reads a password from the terminal on stdin. Callers wipe the
// result with common.WipeByteArray once the request is sent.
func (p prompter) secret(label string) ([]byte, error) {
	if _, err := fmt.Fprintf(p.out, "%s: ", label); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	if len(pw) == 0 {
		return nil, fmt.Errorf("%s: %w", strings.ToLower(label), errEmptyAnswer)
	}
	return pw, nil
}
