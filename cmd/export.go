package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/doms3/chatty/internal"
	"github.com/doms3/chatty/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	output    string
	exportAll bool
	outputDir string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [name]",
	Short: "Export a session",
	Long: `Export a session as json, jsonl, yaml or md. The document is written to
standard output unless --output is given. With --all every session is written
to its own file in --output-dir.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		if exportAll {
			if len(args) > 0 {
				return fmt.Errorf("--all does not take a session name")
			}
			return exportAllSessions(cmd, exporter)
		}

		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		sf, session, err := loadSession(name)
		if err != nil {
			return err
		}
		sf.Close()

		if output == "" {
			if err := exporter.Export(sf.Name, session, cmd.OutOrStdout()); err != nil {
				return &internal.ExportError{Format: format, Path: "stdout", Err: err}
			}
			return nil
		}
		if err := exportToFile(exporter, sf.Name, output); err != nil {
			return err
		}
		internal.PrintSuccess(cmd.ErrOrStderr(), fmt.Sprintf("Exported %s to %s", sf.Name, output))
		return nil
	},
}

func exportAllSessions(cmd *cobra.Command, exporter export.Exporter) error {
	files, err := store.List()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return &internal.ExportError{Format: format, Path: outputDir, Err: err}
	}

	exported := 0
	for _, file := range files {
		path := filepath.Join(outputDir, file.Name+"."+exporter.Extension())
		if err := exportToFile(exporter, file.Name, path); err != nil {
			internal.LogWarn("Skipping %s: %v", file.Name, err)
			continue
		}
		exported++
	}

	internal.PrintSuccess(cmd.ErrOrStderr(), fmt.Sprintf("Exported %d of %d session(s) to %s", exported, len(files), outputDir))
	return nil
}

// exportToFile loads the named session and writes it to path
func exportToFile(exporter export.Exporter, name, path string) error {
	sf, session, err := loadSession(name)
	if err != nil {
		return err
	}
	sf.Close()

	f, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	err = exporter.Export(name, session, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "json", "Export format: json, jsonl, yaml, md")
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every session")
	exportCmd.Flags().StringVar(&outputDir, "output-dir", "./exports", "Directory for --all")
}
