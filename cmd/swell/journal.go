package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swell/internal/diag"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect warning journals",
}

var journalDumpCmd = &cobra.Command{
	Use:   "dump <journal>",
	Short: "Decode a recorded warning journal",
	Long:  `Reads the msgpack journal written when [diagnostics].journal is set and prints every recorded diagnostic.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDump,
}

func init() {
	journalDumpCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	journalDumpCmd.Flags().Bool("frames", false, "print captured frame addresses")
	journalCmd.AddCommand(journalDumpCmd)
}

type journalRecord struct {
	Unix     int64    `json:"unix"`
	Time     string   `json:"time"`
	Severity string   `json:"severity"`
	Message  string   `json:"message"`
	Frames   []string `json:"frames,omitempty"`
}

func runJournalDump(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	showFrames, err := cmd.Flags().GetBool("frames")
	if err != nil {
		return fmt.Errorf("failed to get frames flag: %w", err)
	}

	events, err := diag.ReadJournal(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		return renderJournalJSON(out, events)
	case "pretty":
		useColor, err := stdoutColor(cmd)
		if err != nil {
			return err
		}
		renderJournalPretty(out, events, showFrames, useColor)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

func renderJournalPretty(out io.Writer, events []diag.Event, showFrames, useColor bool) {
	warnLabel := color.New(color.FgYellow)
	assertLabel := color.New(color.FgRed, color.Bold)
	if !useColor {
		warnLabel.DisableColor()
		assertLabel.DisableColor()
	}

	if len(events) == 0 {
		fmt.Fprintln(out, "journal is empty")
		return
	}

	for _, ev := range events {
		label := warnLabel
		if ev.Severity == diag.SevAssertion {
			label = assertLabel
		}
		// Pad before coloring so the escape codes do not skew the column.
		sev := fmt.Sprintf("%-9s", ev.Severity.String())
		ts := time.Unix(ev.Unix, 0).UTC().Format(time.RFC3339)
		fmt.Fprintf(out, "%s  %s  %s", ts, label.Sprint(sev), ev.Message)
		if len(ev.Frames) > 0 {
			fmt.Fprintf(out, "  (%d frames)", len(ev.Frames))
		}
		fmt.Fprintln(out)
		if showFrames {
			for i, pc := range ev.Frames {
				fmt.Fprintf(out, "    %2d: %#x\n", i, pc)
			}
		}
	}
}

func renderJournalJSON(out io.Writer, events []diag.Event) error {
	enc := json.NewEncoder(out)
	for _, ev := range events {
		rec := journalRecord{
			Unix:     ev.Unix,
			Time:     time.Unix(ev.Unix, 0).UTC().Format(time.RFC3339),
			Severity: ev.Severity.String(),
			Message:  ev.Message,
		}
		for _, pc := range ev.Frames {
			rec.Frames = append(rec.Frames, fmt.Sprintf("%#x", pc))
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode journal record: %w", err)
		}
	}
	return nil
}
