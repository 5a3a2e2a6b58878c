package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"swell/internal/version"
)

const versionTagline = "read the swell before it breaks"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show swell build fingerprints",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("message", false, "include git commit message")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "show every recorded bit of build metadata")
}

// buildField is one requested line of build metadata. Values the build
// never stamped render as "unknown" instead of vanishing, so a dev
// binary still answers every question it was asked.
type buildField struct {
	name  string
	value string
}

type versionDump struct {
	Tool    string            `json:"tool"`
	Version string            `json:"version"`
	Tagline string            `json:"tagline"`
	Build   map[string]string `json:"build,omitempty"`
}

func runVersion(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	fields, err := selectedBuildFields(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		return writeVersionJSON(out, fields)
	case "pretty":
		useColor, err := stdoutColor(cmd)
		if err != nil {
			return err
		}
		writeVersionPretty(out, fields, useColor)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

// selectedBuildFields gathers the metadata lines requested through
// --hash, --message and --date. --full selects all three.
func selectedBuildFields(cmd *cobra.Command) ([]buildField, error) {
	flags := cmd.Flags()
	full, err := flags.GetBool("full")
	if err != nil {
		return nil, fmt.Errorf("failed to get full flag: %w", err)
	}

	available := []struct {
		flag  string
		field buildField
	}{
		{"hash", buildField{"commit", version.GitCommit}},
		{"message", buildField{"message", version.GitMessage}},
		{"date", buildField{"date", version.BuildDate}},
	}

	var picked []buildField
	for _, entry := range available {
		want, err := flags.GetBool(entry.flag)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", entry.flag, err)
		}
		if !want && !full {
			continue
		}
		f := entry.field
		f.value = strings.TrimSpace(f.value)
		if f.value == "" {
			f.value = "unknown"
		}
		picked = append(picked, f)
	}
	return picked, nil
}

// release trims the stamped version, falling back to "dev" for
// binaries built without ldflags.
func release() string {
	if v := strings.TrimSpace(version.Version); v != "" {
		return v
	}
	return "dev"
}

func writeVersionPretty(out io.Writer, fields []buildField, useColor bool) {
	shown := release()
	if useColor {
		if c := version.Colored(); c != "" {
			shown = c
		}
	}
	fmt.Fprintf(out, "swell %s, %s\n", shown, versionTagline)

	if len(fields) == 0 {
		fmt.Fprintln(out, "build metadata hides behind --hash, --message, --date, or --full")
		return
	}
	width := 0
	for _, f := range fields {
		if len(f.name) > width {
			width = len(f.name)
		}
	}
	for _, f := range fields {
		fmt.Fprintf(out, "  %-*s %s\n", width, f.name, f.value)
	}
}

func writeVersionJSON(out io.Writer, fields []buildField) error {
	dump := versionDump{
		Tool:    "swell",
		Version: release(),
		Tagline: versionTagline,
	}
	if len(fields) > 0 {
		dump.Build = make(map[string]string, len(fields))
		for _, f := range fields {
			dump.Build[f.name] = f.value
		}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}
