package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dgallion1/docscan/internal/doctree"
	"github.com/dgallion1/docscan/internal/extract"
	"github.com/dgallion1/docscan/internal/matcher"
	"github.com/dgallion1/docscan/internal/report"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printMatches writes grep-style "file:line: text" output.
func printMatches(w io.Writer, results []matcher.FileMatches, asJSON bool) error {
	if asJSON {
		return printJSON(w, results)
	}
	for _, fm := range results {
		if fm.Error != "" {
			if _, err := fmt.Fprintf(w, "%s: error: %s\n", fm.FileName, fm.Error); err != nil {
				return err
			}
			continue
		}
		for _, m := range fm.Matches {
			if _, err := fmt.Fprintf(w, "%s:%d: %s\n", m.FileName, m.LineNumber, m.Line); err != nil {
				return err
			}
		}
	}
	return nil
}

func printSections(w io.Writer, sections []extract.Section, asJSON bool) error {
	if asJSON {
		return printJSON(w, sections)
	}
	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if _, err := fmt.Fprintf(w, "== %s\nTitle: %s\n%s\n", s.FileName, s.Title, s.Paragraph); err != nil {
			return err
		}
	}
	return nil
}

func writeReport(path, heading string, files []doctree.File, sections []extract.Section) (err error) {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close report: %w", cerr)
		}
	}()
	return report.Render(out, report.Request{Pattern: heading, Files: names, SearchResults: sections})
}
