package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/igorsobreira/titlecase"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/dixonwille/wmenu.v4"

	"github.com/leocov-dev/helixmeta/core"
	"github.com/leocov-dev/helixmeta/fileio"
	"github.com/leocov-dev/helixmeta/internal/shared"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// describeCmd represents the describe command
var describeCmd = &cobra.Command{
	Use:   "describe [file or id]",
	Short: "Show what a component contributes to a launch on a given host",
	Long: `Show what a component contributes to a launch on a given host.
The argument is either a component file or a component id looked up in the index of the metadata tree.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		host, err := describeHost(viper.GetString("describe.os"), viper.GetString("describe.arch"))
		if err != nil {
			shared.Exitln(err)
		}
		var features []core.ConditionFeature
		for _, f := range viper.GetStringSlice("describe.feature") {
			feature := core.ConditionFeature(f)
			if !feature.Valid() {
				shared.Exitf("Unknown feature %q, must be one of %v\n", f, core.AllConditionFeatures())
			}
			features = append(features, feature)
		}

		path, err := resolveComponentFile(args[0], viper.GetString("describe.version"))
		if err != nil {
			shared.Exitln(err)
		}
		c, err := fileio.LoadComponent(path)
		if err != nil {
			shared.Exitln(err)
		}

		describeComponent(cmd.OutOrStdout(), c, host, features)
	},
}

func describeHost(osName, arch string) (core.Host, error) {
	host, err := core.HostPlatform(runtime.GOOS, runtime.GOARCH)
	if err != nil && (osName == "" || arch == "") {
		return core.Host{}, fmt.Errorf("%w; pass --os and --arch", err)
	}
	if osName == "" {
		osName = string(host.OS)
	}
	if arch == "" {
		arch = string(host.Arch)
	}
	return core.ParseHost(osName, arch)
}

// resolveComponentFile maps an id from the index to its file; existing paths are returned as is
func resolveComponentFile(arg, version string) (string, error) {
	if _, err := os.Stat(arg); err == nil {
		return arg, nil
	}

	indexPath, err := shared.GetIndexPath(core.IndexFileName)
	if err != nil {
		return "", err
	}
	index, err := fileio.LoadIndex(indexPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s is not a file and there is no index to look it up in; run helixmeta index first", arg)
		}
		return "", err
	}

	versions := index.Versions(arg)
	if len(versions) == 0 {
		return "", fmt.Errorf("component %s is not in the index", arg)
	}
	if version == "" {
		if version, err = chooseVersion(versions); err != nil {
			return "", err
		}
	}
	entry, ok := index.Find(arg, version)
	if !ok {
		return "", fmt.Errorf("component %s has no version %s (known: %s)", arg, version, strings.Join(versions, ", "))
	}
	return filepath.Join(filepath.Dir(index.GetFilePath()), filepath.FromSlash(entry.File)), nil
}

// chooseVersion asks for a version when several exist, defaulting to the newest
func chooseVersion(versions []string) (string, error) {
	if viper.GetBool("non-interactive") || len(versions) == 1 {
		return versions[0], nil
	}

	var chosen string
	menu := wmenu.NewMenu("Choose a version:")
	menu.Option("Cancel", nil, false, nil)
	for i, v := range versions {
		menu.Option(v, v, i == 0, nil)
	}
	menu.Action(func(menuRes []wmenu.Opt) error {
		if len(menuRes) != 1 || menuRes[0].Value == nil {
			return errors.New("version selection cancelled")
		}
		v, ok := menuRes[0].Value.(string)
		if !ok {
			return errors.New("error converting interface from wmenu")
		}
		chosen = v
		return nil
	})
	if err := menu.Run(); err != nil {
		return "", err
	}
	return chosen, nil
}

// humanName turns "SupportsQuickPlayWorld" or "quick_play_world" into "Supports Quick Play World"
func humanName(kebab string) string {
	return titlecase.Title(strings.NewReplacer("-", " ", "_", " ").Replace(kebab))
}

func describeComponent(w io.Writer, c core.Component, host core.Host, features []core.ConditionFeature) {
	fmt.Fprintln(w, headingStyle.Render(c.ID+" "+c.Version))
	field := func(label, value string) {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label+":"), value)
	}
	list := func(label string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintln(w, labelStyle.Render(label+":"))
		for _, item := range items {
			fmt.Fprintf(w, "  %s\n", item)
		}
	}

	field("Released", c.ReleaseTime.Format(time.RFC3339))
	field("Host", fmt.Sprintf("%s/%s", host.OS, host.Arch))
	if c.MainClass != "" {
		field("Main class", c.MainClass)
	}

	if !c.Traits.IsEmpty() {
		var names []string
		for _, t := range c.Traits.Slice() {
			names = append(names, humanName(t.KebabName()))
		}
		field("Traits", strings.Join(names, ", "))
	}

	for _, deps := range dependencyGroups(c) {
		var items []string
		for _, dep := range deps.deps {
			if dep.Version != "" {
				items = append(items, dep.ID+" "+dep.Version)
			} else {
				items = append(items, dep.ID)
			}
		}
		list(deps.label, items)
	}

	if c.Assets != nil {
		field("Assets", fmt.Sprintf("%s (%s)", c.Assets.ID, mutedStyle.Render(c.Assets.URL)))
	}

	var classpath []string
	for _, name := range c.LaunchClasspath(host) {
		item := name.String()
		if dl, ok := c.DownloadFor(name); ok {
			item += " " + mutedStyle.Render(fmt.Sprintf("(%d bytes)", dl.Size))
		}
		classpath = append(classpath, item)
	}
	list("Classpath", classpath)

	var natives []string
	for _, n := range c.NativesFor(host) {
		natives = append(natives, n.Name.String())
	}
	list("Natives", natives)

	list("Arguments", c.ArgumentsFor(features...))

	var optional []string
	for _, arg := range c.GameArguments {
		if arg.IsConditional() {
			optional = append(optional, fmt.Sprintf("%s %s", arg.Value, mutedStyle.Render("["+humanName(string(arg.Feature))+"]")))
		}
	}
	if len(features) == 0 {
		list("Optional arguments", optional)
	}
}

type displayDeps struct {
	label string
	deps  []core.ComponentDependency
}

func dependencyGroups(c core.Component) []displayDeps {
	return []displayDeps{
		{"Requires", c.Requires},
		{"Conflicts", c.Conflicts},
		{"Loads before", c.Before},
		{"Loads after", c.After},
		{"Provides", c.Provides},
	}
}

func init() {
	rootCmd.AddCommand(describeCmd)

	describeCmd.Flags().String("version", "", "Version to describe when looking up an id (default: ask, or the newest)")
	_ = viper.BindPFlag("describe.version", describeCmd.Flags().Lookup("version"))
	describeCmd.Flags().String("os", "", "Operating system to describe for: linux, osx or windows (default: this machine)")
	_ = viper.BindPFlag("describe.os", describeCmd.Flags().Lookup("os"))
	describeCmd.Flags().String("arch", "", "Architecture to describe for: x86, x86_64 or arm64 (default: this machine)")
	_ = viper.BindPFlag("describe.arch", describeCmd.Flags().Lookup("arch"))
	describeCmd.Flags().StringSlice("feature", nil, "Enabled launcher features, e.g. demo or custom_resolution")
	_ = viper.BindPFlag("describe.feature", describeCmd.Flags().Lookup("feature"))
}
