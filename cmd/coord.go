package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leocov-dev/helixmeta/core"
	"github.com/leocov-dev/helixmeta/internal/shared"
)

// coordCmd represents the coord command
var coordCmd = &cobra.Command{
	Use:     "coord [notation]",
	Short:   "Show the parts and download URL of a maven coordinate",
	Example: "  helixmeta coord org.lwjgl:lwjgl:3.3.1:natives-linux --repo mojang",
	Aliases: []string{"gradle"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := core.ParseGradleSpecifier(args[0])
		if err != nil {
			shared.Exitln(err)
		}
		repo, err := settings.Repository(viper.GetString("coord.repo"))
		if err != nil {
			shared.Exitln(err)
		}

		url := spec.ToURL(repo.URL)
		printCoordinate(cmd.OutOrStdout(), spec, url)
		if err := spec.Validate(); err != nil {
			shared.LoggerFromContext(cmd.Context()).Warn("coordinate is incomplete", "err", err)
		}

		if viper.GetBool("coord.open") {
			if err := open.Start(url); err != nil {
				fmt.Println("Opening page failed, direct link:")
				fmt.Println(url)
			}
		}
	},
}

func printCoordinate(w io.Writer, spec core.GradleSpecifier, url string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Group:\t%s\n", spec.Group)
	fmt.Fprintf(tw, "Artifact:\t%s\n", spec.Artifact)
	fmt.Fprintf(tw, "Version:\t%s\n", spec.Version)
	if spec.Classifier != "" {
		fmt.Fprintf(tw, "Classifier:\t%s\n", spec.Classifier)
	}
	fmt.Fprintf(tw, "Extension:\t%s\n", spec.Extension)
	fmt.Fprintf(tw, "Notation:\t%s\n", spec)
	fmt.Fprintf(tw, "URL:\t%s\n", url)
	_ = tw.Flush()
}

func init() {
	rootCmd.AddCommand(coordCmd)

	coordCmd.Flags().String("repo", "", "Repository name from the settings file, or a repository URL")
	_ = viper.BindPFlag("coord.repo", coordCmd.Flags().Lookup("repo"))
	coordCmd.Flags().Bool("open", false, "Open the artifact URL in your browser")
	_ = viper.BindPFlag("coord.open", coordCmd.Flags().Lookup("open"))
}
