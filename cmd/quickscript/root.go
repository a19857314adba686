package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/quickscript/internal/app"
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	configPath string
	prefsPath  string
	apiURL     string
	poll       time.Duration
}

func (o *rootOptions) appOptions() app.Options {
	return app.Options{
		ConfigPath: o.configPath,
		PrefsPath:  o.prefsPath,
		PollEvery:  o.poll,
		APIURL:     o.apiURL,
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "quickscript",
		Short: "Transcribe audio, video and links through the quickscript backend",
		Long: `quickscript submits local files and URLs to the transcription backend,
tracks the jobs it submitted, and downloads the results.

Run without a subcommand to open the terminal UI.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), opts.appOptions())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "override config path (default ~/.config/quickscript/config.toml)")
	flags.StringVar(&opts.apiURL, "api-url", "", "backend base URL, overrides api_url from the config")
	cmd.Flags().StringVar(&opts.prefsPath, "prefs", "", "override preferences path (default ~/.config/quickscript/prefs.toml)")
	cmd.Flags().DurationVar(&opts.poll, "poll", 0, "status refresh interval (default 2s)")

	cmd.AddCommand(
		newSubmitCmd(opts),
		newSubmitURLCmd(opts),
		newStatusCmd(opts),
		newDownloadCmd(opts),
		newReadCmd(opts),
		newCancelCmd(opts),
		newFakeBackendCmd(),
	)
	return cmd
}

// withSession opens a session for a one-shot command and closes it after fn.
func withSession(opts *rootOptions, fn func(sess *app.Session) error) error {
	sess, err := app.Open(opts.appOptions())
	if err != nil {
		return err
	}
	defer sess.Close()
	return fn(sess)
}
