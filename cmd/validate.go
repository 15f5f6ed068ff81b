package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leocov-dev/helixmeta/fileio"
	"github.com/leocov-dev/helixmeta/internal/shared"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Check component files against the schema",
	Long:  "Check component files against the schema. Without arguments every component of the metadata tree is checked.",
	Run: func(cmd *cobra.Command, args []string) {
		logger := shared.LoggerFromContext(cmd.Context())

		files := args
		if len(files) == 0 {
			root, err := shared.GetRootPath()
			if err != nil {
				shared.Exitln(err)
			}
			rel, err := fileio.ScanComponents(root, logger)
			if err != nil {
				shared.Exitln(err)
			}
			for _, f := range rel {
				files = append(files, filepath.Join(root, filepath.FromSlash(f)))
			}
		}

		progress := shared.NewProgress(logger)
		failed := validateFiles(cmd.OutOrStdout(), files)
		progress.Done("validated components", "files", len(files), "failed", failed)
		if failed > 0 {
			shared.Exitf("%d of %d component files are invalid\n", failed, len(files))
		}
	},
}

// validateFiles reports every file to w and returns how many failed
func validateFiles(w io.Writer, files []string) int {
	failed := 0
	for _, file := range files {
		c, err := fileio.LoadComponent(file)
		if err != nil {
			failed++
			fmt.Fprintf(w, "FAIL %v\n", err)
			continue
		}
		fmt.Fprintf(w, "ok   %s (%s %s)\n", file, c.ID, c.Version)
	}
	return failed
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
