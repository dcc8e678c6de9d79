// Command inspect decodes an opportunity payload from a file or stdin
// and prints the canonical record, the decode tier, and the rendered
// details text. Useful when a payload renders strangely in the UI.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/eimlabs/bidpilot/internal/normalize"
	"github.com/eimlabs/bidpilot/internal/present"
)

func main() {
	var raw []byte
	var err error
	if len(os.Args) > 1 {
		raw, err = os.ReadFile(os.Args[1])
	} else {
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		log.Fatalf("Failed to read payload: %v", err)
	}

	rec := normalize.Decode(string(raw))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"Decode tier", rec.Tier.String()},
		{"Title", rec.Title},
		{"Agency", rec.Agency},
		{"Sub-agency", rec.SubAgency},
		{"Posted", rec.PostedDate},
		{"Deadline", rec.ResponseDeadline},
		{"NAICS", rec.NAICSCode},
		{"Location", rec.Location},
		{"Status", rec.Status},
		{"Value", rec.EstimatedValue},
		{"Link", rec.Link},
		{"Type", rec.Type},
		{"Source", rec.Source},
	})
	t.Render()

	fmt.Println()
	fmt.Println(present.Opportunity(rec))

	if rec.IsError() {
		fmt.Println()
		fmt.Println("--- raw dump ---")
		fmt.Println(present.RawDump(string(raw)))
	}
}
