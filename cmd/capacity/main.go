// Command capacity runs the capacity engine from JSON files on disk,
// without the HTTP server or any backing services.
//
//	capacity calculate --aircraft fleet.json --stands stands.json \
//	    [--adjacency-rules rules.json] [--settings settings.json] \
//	    [--output table|json|csv] [--out-file capacity.csv]
//	capacity init --output-dir ./sample
//
// Exit codes: 0 on success, 1 on invalid input (bad flags, unreadable
// or malformed files, inconsistent data), 2 on an internal error.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"

	"github.com/avikern/stand-planner/internal/capacity"
	"github.com/avikern/stand-planner/internal/model"
	"github.com/avikern/stand-planner/internal/report"
	"github.com/avikern/stand-planner/internal/timeutil"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "calculate":
		os.Exit(runCalculate(os.Args[2:]))
	case "init":
		os.Exit(runInit(os.Args[2:]))
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: capacity <calculate|init> [flags]")
	fmt.Fprintln(os.Stderr, "  calculate  run the capacity engine over JSON input files")
	fmt.Fprintln(os.Stderr, "  init       write a sample dataset to a directory")
}

func runCalculate(args []string) int {
	fs := flag.NewFlagSet("calculate", flag.ContinueOnError)
	aircraftPath := fs.String("aircraft", "", "path to aircraft types JSON (required)")
	standsPath := fs.String("stands", "", "path to stands JSON (required)")
	rulesPath := fs.String("adjacency-rules", "", "path to adjacency rules JSON")
	settingsPath := fs.String("settings", "", "path to operational settings JSON")
	output := fs.String("output", "table", "output format: table, json or csv")
	outFile := fs.String("out-file", "", "write output to a file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *aircraftPath == "" || *standsPath == "" {
		fmt.Fprintln(os.Stderr, "calculate: --aircraft and --stands are required")
		return 1
	}

	var in capacity.Input
	if err := readJSON(*aircraftPath, &in.Types); err != nil {
		fmt.Fprintf(os.Stderr, "calculate: %v\n", err)
		return 1
	}
	if err := readJSON(*standsPath, &in.Stands); err != nil {
		fmt.Fprintf(os.Stderr, "calculate: %v\n", err)
		return 1
	}
	if *rulesPath != "" {
		if err := readJSON(*rulesPath, &in.Rules); err != nil {
			fmt.Fprintf(os.Stderr, "calculate: %v\n", err)
			return 1
		}
	}
	in.Settings = defaultSettings()
	if *settingsPath != "" {
		if err := readJSON(*settingsPath, &in.Settings); err != nil {
			fmt.Fprintf(os.Stderr, "calculate: %v\n", err)
			return 1
		}
	}

	// Ctrl-C aborts the run cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := capacity.Calculate(ctx, in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "calculate: %v\n", err)
		return 1
	}

	out := io.Writer(os.Stdout)
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "calculate: %v\n", err)
			return 2
		}
		defer f.Close()
		out = f
	}

	switch *output {
	case "table":
		writeTable(out, res)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fmt.Fprintf(os.Stderr, "calculate: %v\n", err)
			return 2
		}
	case "csv":
		w := csv.NewWriter(out)
		if err := w.WriteAll(report.CapacityCSV(res)); err != nil {
			fmt.Fprintf(os.Stderr, "calculate: %v\n", err)
			return 2
		}
	default:
		fmt.Fprintf(os.Stderr, "calculate: unknown output format %q\n", *output)
		return 1
	}
	return 0
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func defaultSettings() model.OperationalSettings {
	return model.OperationalSettings{
		GapMinutes:          15,
		SlotDurationMinutes: 60,
		DayStart:            timeutil.ToD(6 * 3600),
		DayEnd:              timeutil.ToD(22 * 3600),
	}
}

// writeTable renders both matrices plus the summary with aligned columns.
func writeTable(out io.Writer, res *capacity.Result) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	typeIDs := make([]string, 0, len(res.Types))
	for _, t := range res.Types {
		typeIDs = append(typeIDs, t.ID)
	}

	slots := slotOrder(res)
	for _, section := range []struct {
		name   string
		matrix capacity.Matrix
	}{
		{"BEST CASE", res.Best},
		{"WORST CASE", res.Worst},
	} {
		fmt.Fprintf(tw, "%s\n", section.name)
		fmt.Fprint(tw, "Slot")
		for _, tid := range typeIDs {
			fmt.Fprintf(tw, "\t%s", tid)
		}
		fmt.Fprintln(tw)
		for _, slot := range slots {
			fmt.Fprint(tw, slot)
			for _, tid := range typeIDs {
				fmt.Fprintf(tw, "\t%d", section.matrix[slot][tid])
			}
			fmt.Fprintln(tw)
		}
		fmt.Fprintln(tw)
	}

	fmt.Fprintf(tw, "Best total:\t%d\n", res.Summary.BestTotal)
	fmt.Fprintf(tw, "Worst total:\t%d\n", res.Summary.WorstTotal)
	fmt.Fprintf(tw, "Adjacency impact:\t%.1f%%\n", res.Summary.AdjacencyImpactPct)
	tw.Flush()
}

// slotOrder returns the slot labels in day order.
func slotOrder(res *capacity.Result) []string {
	labels := make([]string, 0, len(res.Slots))
	for _, s := range res.Slots {
		labels = append(labels, s.Label)
	}
	return labels
}

func runInit(args []string) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	dir := fs.String("output-dir", ".", "directory to write the sample dataset into")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		return 2
	}
	files := map[string]any{
		"aircraft.json": sampleTypes(),
		"stands.json":   sampleStands(),
		"rules.json":    sampleRules(),
		"settings.json": defaultSettings(),
	}
	for name, v := range files {
		path := filepath.Join(*dir, name)
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "init: %v\n", err)
			return 2
		}
		if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "init: %v\n", err)
			return 2
		}
		fmt.Printf("wrote %s\n", path)
	}
	return 0
}

func sampleTypes() []model.AircraftType {
	return []model.AircraftType{
		{ID: "A320", SizeCategory: model.SizeC, AvgTurnaroundMinutes: 45},
		{ID: "B737", SizeCategory: model.SizeC, AvgTurnaroundMinutes: 45},
		{ID: "B777", SizeCategory: model.SizeE, AvgTurnaroundMinutes: 90},
		{ID: "A380", SizeCategory: model.SizeF, AvgTurnaroundMinutes: 120},
	}
}

func sampleStands() []model.Stand {
	return []model.Stand{
		{ID: "S1", CompatibleTypes: []string{"A320", "B737"}, Terminal: "T1", Pier: "A", MaxSize: model.SizeC, HasJetbridge: true},
		{ID: "S2", CompatibleTypes: []string{"A320", "B737"}, Terminal: "T1", Pier: "A", MaxSize: model.SizeC},
		{ID: "S3", CompatibleTypes: []string{"A320", "B737", "B777"}, Terminal: "T2", Pier: "B", MaxSize: model.SizeE, HasJetbridge: true},
		{ID: "S4", CompatibleTypes: []string{"B777", "A380"}, Terminal: "T2", Pier: "B", MaxSize: model.SizeF, HasJetbridge: true},
	}
}

func sampleRules() []model.AdjacencyRule {
	return []model.AdjacencyRule{
		{
			PrimaryStand:  "S4",
			TriggerTypes:  []string{"A380"},
			AffectedStand: "S3",
			Restriction:   model.Restriction{Kind: model.NoUse},
		},
	}
}
