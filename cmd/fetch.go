package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vbauerster/mpb/v4"
	"github.com/vbauerster/mpb/v4/decor"
	"golang.org/x/sync/errgroup"

	"github.com/leocov-dev/helixmeta/core"
	"github.com/leocov-dev/helixmeta/internal/shared"
	"github.com/leocov-dev/helixmeta/sources"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch [notation...]",
	Short: "Print component download entries for maven artifacts",
	Long: `Print component download entries for maven artifacts.
By default the size comes from the repository and the hash from its .sha256 files;
--compute downloads each artifact and hashes it instead.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := settings.Repository(viper.GetString("fetch.repo"))
		if err != nil {
			shared.Exitln(err)
		}

		libs := make([]sources.Library, len(args))
		for i, arg := range args {
			name, err := core.ParseGradleSpecifier(arg)
			if err != nil {
				shared.Exitln(err)
			}
			libs[i] = sources.Library{Name: name, URL: repo.URL}
		}

		progress := shared.NewProgress(shared.LoggerFromContext(cmd.Context()))
		downloads, err := fetchDownloads(cmd.Context(), libs, viper.GetBool("fetch.compute"), os.Stderr)
		if err != nil {
			shared.Exitln(err)
		}
		progress.Done("fetched downloads", "artifacts", len(downloads))

		if err := writeDownloads(cmd.OutOrStdout(), downloads); err != nil {
			shared.Exitln(err)
		}
	},
}

// fetchDownloads resolves all libraries concurrently, keeping the argument order.
// When compute is set the artifacts are downloaded with progress bars drawn on barOutput.
func fetchDownloads(ctx context.Context, libs []sources.Library, compute bool, barOutput io.Writer) ([]core.Download, error) {
	downloads := make([]core.Download, len(libs))

	var bars *mpb.Progress
	if compute {
		bars = mpb.NewWithContext(ctx, mpb.WithOutput(barOutput), mpb.WithWidth(40))
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, lib := range libs {
		i, lib := i, lib
		g.Go(func() error {
			var err error
			if compute {
				downloads[i], err = sources.ComputeDownload(gctx, lib, progressBar(bars))
			} else {
				downloads[i], err = sources.FetchDownload(gctx, lib)
			}
			return err
		})
	}
	err := g.Wait()
	if bars != nil {
		bars.Wait()
	}
	if err != nil {
		return nil, err
	}
	return downloads, nil
}

// barReader aborts its bar when closed early so mpb.Progress.Wait can return
type barReader struct {
	io.ReadCloser
	bar *mpb.Bar
}

func (r barReader) Close() error {
	err := r.ReadCloser.Close()
	if !r.bar.Completed() {
		r.bar.Abort(false)
	}
	return err
}

func progressBar(bars *mpb.Progress) sources.ProgressFunc {
	return func(name string, total int64, body io.ReadCloser) io.ReadCloser {
		if total <= 0 {
			return body
		}
		bar := bars.AddBar(total,
			mpb.PrependDecorators(decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DidentRight})),
			mpb.AppendDecorators(decor.CountersKibiByte("% .2f / % .2f")),
		)
		return barReader{ReadCloser: bar.ProxyReader(body), bar: bar}
	}
}

// writeDownloads prints the entries in the form they take in a component's downloads list
func writeDownloads(w io.Writer, downloads []core.Download) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(downloads); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().String("repo", "", "Repository name from the settings file, or a repository URL")
	_ = viper.BindPFlag("fetch.repo", fetchCmd.Flags().Lookup("repo"))
	fetchCmd.Flags().Bool("compute", false, "Download the artifacts and hash them locally")
	_ = viper.BindPFlag("fetch.compute", fetchCmd.Flags().Lookup("compute"))
}
