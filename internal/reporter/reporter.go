package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/september-cli/september/internal/usecase"
	"gopkg.in/yaml.v3"
)

// Format selects how a status snapshot is rendered.
type Format string

const (
	// FormatText renders a human-readable table.
	FormatText Format = "text"
	// FormatJSON renders indented JSON.
	FormatJSON Format = "json"
	// FormatYAML renders YAML.
	FormatYAML Format = "yaml"
)

// Reporter renders a cache status snapshot.

type Reporter interface {
	Render(w io.Writer, status *usecase.CacheStatus) error
}

// New returns the reporter for format. An empty format means text.
func New(format Format) (Reporter, error) {
	switch format {
	case FormatText, "":
		return &textReporter{}, nil
	case FormatJSON:
		return &jsonReporter{}, nil
	case FormatYAML:
		return &yamlReporter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

type textReporter struct{}

func (r *textReporter) Render(w io.Writer, status *usecase.CacheStatus) error {
	if status.Total == 0 {
		fmt.Fprintln(w, "No tags cached.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "TAG\tREVISION\tPROCESSED")
	for _, tag := range status.Tags {
		state := "no"
		if tag.Processed {
			state = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", tag.Name, shortID(tag.ID), state)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d tags: %d processed, %d pending",
		status.Total, status.Processed, status.Pending)
	if status.LatestProcessed != "" {
		fmt.Fprintf(w, " (latest processed %s)", status.LatestProcessed)
	}
	fmt.Fprintln(w)
	return nil
}

// shortID abbreviates long revision hashes for table output.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

type jsonReporter struct{}

func (r *jsonReporter) Render(w io.Writer, status *usecase.CacheStatus) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(status)
}

type yamlReporter struct{}

func (r *yamlReporter) Render(w io.Writer, status *usecase.CacheStatus) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(status); err != nil {
		return err
	}
	return enc.Close()
}
