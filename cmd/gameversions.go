package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leocov-dev/helixmeta/core"
	"github.com/leocov-dev/helixmeta/fileio"
	"github.com/leocov-dev/helixmeta/internal/shared"
	"github.com/leocov-dev/helixmeta/sources"
)

// GameComponentID is the component id game versions are stored under
const GameComponentID = "net.minecraft"

// gameVersionsCmd represents the game-versions command
var gameVersionsCmd = &cobra.Command{
	Use:   "game-versions",
	Short: "List published game versions and whether the metadata tree has a component for them",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		manifest, err := sources.FetchVersionManifest(cmd.Context(), viper.GetString("game-versions.manifest"))
		if err != nil {
			shared.Exitln(err)
		}

		versions := manifest.Releases()
		if viper.GetBool("game-versions.snapshots") {
			versions = manifest.Versions
		}

		index := core.NewIndex()
		indexPath, err := shared.GetIndexPath(core.IndexFileName)
		if err != nil {
			shared.Exitln(err)
		}
		if loaded, err := fileio.LoadIndex(indexPath); err == nil {
			index = loaded
		} else if !errors.Is(err, os.ErrNotExist) {
			shared.Exitln(err)
		}

		printGameVersions(cmd.OutOrStdout(), versions, index)
	},
}

func printGameVersions(w io.Writer, versions []sources.GameVersion, index core.Index) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, v := range versions {
		status := "missing"
		if _, ok := index.Find(GameComponentID, v.ID); ok {
			status = "indexed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.ID, v.Type, v.ReleaseTime.UTC().Format(time.DateOnly), status)
	}
	_ = tw.Flush()
}

func init() {
	rootCmd.AddCommand(gameVersionsCmd)

	gameVersionsCmd.Flags().Bool("snapshots", false, "Include snapshots and old alpha/beta versions")
	_ = viper.BindPFlag("game-versions.snapshots", gameVersionsCmd.Flags().Lookup("snapshots"))
	gameVersionsCmd.Flags().String("manifest", sources.VersionManifestURL, "Version manifest to read")
	_ = viper.BindPFlag("game-versions.manifest", gameVersionsCmd.Flags().Lookup("manifest"))
}
