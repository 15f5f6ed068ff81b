package cmd

import (
	"bytes"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leocov-dev/helixmeta/core"
	"github.com/leocov-dev/helixmeta/fileio"
	"github.com/leocov-dev/helixmeta/internal/shared"
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild index.toml from the component files of the metadata tree",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		logger := shared.LoggerFromContext(cmd.Context())

		root, err := shared.GetRootPath()
		if err != nil {
			shared.Exitln(err)
		}

		progress := shared.NewProgress(logger)
		index, err := fileio.BuildIndex(root, logger)
		if err != nil {
			shared.Exitln(err)
		}
		result, err := index.Marshal()
		if err != nil {
			shared.Exitln(err)
		}

		changed, err := indexChanged(index.GetFilePath(), result)
		if err != nil {
			shared.Exitln(err)
		}
		if !changed {
			progress.Done("index is up to date", "file", index.GetFilePath())
			return
		}
		if viper.GetBool("index.check") {
			shared.Exitf("%s is out of date; run helixmeta index\n", index.GetFilePath())
		}

		if _, err := os.Stat(index.GetFilePath()); err == nil {
			ok, err := shared.PromptYesNo(cmd.InOrStdin(), cmd.OutOrStdout(), core.IndexFileName+" has changed, overwrite it? [Y/n]: ")
			if err != nil {
				shared.Exitln(err)
			}
			if !ok {
				shared.Exitln("Cancelled")
			}
		}

		if _, err := fileio.WriteIndex(&index); err != nil {
			shared.Exitf("Error writing index: %v\n", err)
		}
		progress.Done("wrote index", "file", index.GetFilePath(), "hash", result.Hash)
	},
}

// indexChanged compares the on-disk index with a freshly built one
func indexChanged(path string, built core.MarshalResult) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, err
	}
	return !bytes.Equal(existing, built.Value), nil
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().Bool("check", false, "Only check that the index is up to date; exit with an error if not")
	_ = viper.BindPFlag("index.check", indexCmd.Flags().Lookup("check"))
}
