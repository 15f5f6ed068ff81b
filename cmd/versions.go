package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leocov-dev/helixmeta/internal/shared"
	"github.com/leocov-dev/helixmeta/sources"
)

// versionsCmd represents the versions command
var versionsCmd = &cobra.Command{
	Use:     "versions [group:artifact]",
	Short:   "List the versions of an artifact published in a repository, newest first",
	Example: "  helixmeta versions org.quiltmc:quilt-loader --exclude '-beta'",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		group, artifact, ok := strings.Cut(args[0], ":")
		if !ok || group == "" || artifact == "" || strings.Contains(artifact, ":") {
			shared.Exitf("Expected group:artifact, got %q\n", args[0])
		}
		repo, err := settings.Repository(viper.GetString("versions.repo"))
		if err != nil {
			shared.Exitln(err)
		}
		exclude := repo.Exclude
		if viper.IsSet("versions.exclude") {
			exclude = viper.GetString("versions.exclude")
		}

		logger := shared.LoggerFromContext(cmd.Context())
		logger.Debug("fetching versions", "url", sources.MetadataURL(repo.URL, group, artifact), "exclude", exclude)

		versions, err := sources.FetchMavenVersions(cmd.Context(), repo.URL, group, artifact, exclude)
		if err != nil {
			shared.Exitln(err)
		}
		if len(versions) == 0 {
			shared.Exitf("No versions of %s found\n", args[0])
		}

		if viper.GetBool("versions.latest") {
			versions = versions[:1]
		}
		for _, v := range versions {
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionsCmd)

	versionsCmd.Flags().String("repo", "", "Repository name from the settings file, or a repository URL")
	_ = viper.BindPFlag("versions.repo", versionsCmd.Flags().Lookup("repo"))
	versionsCmd.Flags().String("exclude", "", "Hide versions matching this pattern (overrides the repository setting)")
	_ = viper.BindPFlag("versions.exclude", versionsCmd.Flags().Lookup("exclude"))
	versionsCmd.Flags().Bool("latest", false, "Only print the newest version")
	_ = viper.BindPFlag("versions.latest", versionsCmd.Flags().Lookup("latest"))
}
