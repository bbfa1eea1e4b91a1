// Command parse prints the analyzed wire layout of every packet type in a Go
// or YAML input, with the offset expression of each slot.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alexhholmes/wirepack/internal/analyzer"
	"github.com/alexhholmes/wirepack/internal/config"
	"github.com/alexhholmes/wirepack/internal/parser"
	"github.com/alexhholmes/wirepack/internal/schema"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <file.go|file.yaml>\n", os.Args[0])
		os.Exit(1)
	}

	if err := dump(os.Stdout, os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func dump(w io.Writer, filename string) error {
	var (
		file *parser.File
		err  error
	)
	if config.IsYAML(filename) {
		file, err = parser.LoadYAML(filename)
	} else {
		file, err = parser.ParseFile(filename)
	}
	if err != nil {
		return err
	}

	descs, diags := analyzer.AnalyzeFile(file, analyzer.RegistryFor(file))
	if len(descs) == 0 && len(diags) == 0 {
		fmt.Fprintln(w, "No types with @packet annotations found")
		return nil
	}

	for _, d := range descs {
		printType(w, d)
	}
	if len(diags) > 0 {
		fmt.Fprintf(w, "\nDiagnostics:\n")
		for _, d := range diags {
			fmt.Fprintf(w, "  %-24s %s\n", d.Code, d.Error())
		}
	}
	return nil
}

func printType(w io.Writer, d *schema.TypeDescriptor) {
	slots, end := d.Slots()
	fmt.Fprintf(w, "\n%s (header=0x%02X, size=%s)\n", d.Name, d.Header, end)
	fmt.Fprintln(w, "Slots:")
	for _, s := range slots {
		switch s.Kind {
		case schema.SlotHeader:
			fmt.Fprintf(w, "  %-15s %-20s @%s\n", "<header>", fmt.Sprintf("0x%02X", s.Value), s.At)
		case schema.SlotSubHeader:
			fmt.Fprintf(w, "  %-15s %-20s @%s\n", "<subheader>", fmt.Sprintf("0x%02X", s.Value), s.At)
		case schema.SlotSequence:
			fmt.Fprintf(w, "  %-15s %-20s @%s\n", "<sequence>", "byte", s.At)
		case schema.SlotField:
			f := s.Field
			fmt.Fprintf(w, "  %-15s %-20s @%s", f.Name, f.GoType, s.At)
			switch {
			case f.HasDynamicLength():
				fmt.Fprintf(w, " (%s=%s)", f.SizeMode, f.SizeField)
			case f.IsSizeSource:
				fmt.Fprintf(w, " (%s of %s)", f.SizeForMode, f.SizeFor)
			}
			fmt.Fprintln(w)
		}
	}
}
