package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfeidau/roster/internal/classes"
)

// ClassesCmd prints the supported organizations and class letters.
type ClassesCmd struct{}

func (c *ClassesCmd) Run(ctx context.Context, globals *Globals) error {
	out := globals.stdout()

	fmt.Fprintf(out, "%-5s %-12s %-7s %s\n", "Code", "Name", "Letter", "Class")
	fmt.Fprintln(out, strings.Repeat("─", 45))

	for _, org := range classes.Organizations() {
		for _, letter := range org.Letters() {
			fmt.Fprintf(out, "%-5s %-12s %-7s %s\n", org.Code, org.Name, letter, org.Classes[letter])
		}
	}

	return nil
}
