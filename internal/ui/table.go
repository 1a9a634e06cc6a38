package ui

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// PrintTable writes data as a boxed table whose first row is the header.
func PrintTable(data [][]string, writer io.Writer) {
	if len(data) <= 1 {
		fmt.Fprintln(writer, pterm.Gray("Nothing recorded yet"))
		return
	}

	table := pterm.DefaultTable
	table.Boxed = true

	str, err := table.WithHasHeader().WithData(data).Srender()
	if err != nil {
		pterm.Error.Printfln("Failed to output table: %s", err.Error())
		return
	}

	fmt.Fprintln(writer, str)
}

// PrintPairs writes label/value rows without a header.
func PrintPairs(pairs [][2]string, writer io.Writer) {
	data := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		data = append(data, []string{Highlight(p[0]), p[1]})
	}

	str, err := pterm.DefaultTable.WithData(data).Srender()
	if err != nil {
		pterm.Error.Printfln("Failed to output summary: %s", err.Error())
		return
	}

	fmt.Fprintln(writer, str)
}
