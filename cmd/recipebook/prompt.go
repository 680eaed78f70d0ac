package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompt reads one line of input.
func (c *cli) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	if c.lines == nil {
		c.lines = bufio.NewReader(c.in)
	}
	line, err := c.lines.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.TrimSpace(label), ":"), err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads a password without echo when input is a terminal.
func (c *cli) readPassword(label string) (string, error) {
	f, ok := c.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return c.prompt(label)
	}

	fmt.Fprint(c.out, label)
	bytePassword, err := term.ReadPassword(int(f.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprintln(c.out) // Add newline after password input
	return strings.TrimSpace(string(bytePassword)), nil
}

// fill prompts for every empty field in order.
func (c *cli) fill(fields ...field) error {
	for _, f := range fields {
		if *f.value != "" {
			continue
		}
		read := c.prompt
		if f.secret {
			read = c.readPassword
		}
		v, err := read(f.label)
		if err != nil {
			return err
		}
		*f.value = v
	}
	return nil
}

type field struct {
	label  string
	value  *string
	secret bool
}

func plain(label string, v *string) field  { return field{label: label, value: v} }
func secret(label string, v *string) field { return field{label: label, value: v, secret: true} }
