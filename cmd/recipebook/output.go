package main

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/recipebook/recipebook-client/internal/client"
	domainerrors "github.com/recipebook/recipebook-client/internal/errors"
)

func (c *cli) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// table writes tab separated rows as aligned columns.
func (c *cli) table(header string, rows []string) error {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, header)
	for _, r := range rows {
		fmt.Fprintln(w, r)
	}
	return w.Flush()
}

const storageHint = "check that --data-dir is writable and not in use by another recipebook process"

// describe returns the message shown for a failed command, followed by the
// field problems of a validation error.
func describe(err error) string {
	if errors.Is(err, domainerrors.ErrStorage) {
		return err.Error() + "\n  " + storageHint
	}
	msg := client.Message(err, err.Error())

	var domainErr *domainerrors.Error
	if !errors.As(err, &domainErr) {
		return msg
	}
	fields := domainErr.FieldErrors()
	if len(fields) == 0 {
		return msg
	}

	var b strings.Builder
	b.WriteString(msg)
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		fmt.Fprintf(&b, "\n  %s: %s", name, fields[name])
	}
	return b.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
