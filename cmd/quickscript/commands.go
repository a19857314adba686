package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/five82/quickscript/internal/app"
	"github.com/five82/quickscript/internal/backend"
)

// maxParallelUploads bounds concurrent uploads for a multi-file submit.
const maxParallelUploads = 4

func newSubmitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <path>...",
		Short: "Upload local files for transcription and print their job ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(opts, func(sess *app.Session) error {
				ids := make([]string, len(args))
				var g errgroup.Group
				g.SetLimit(maxParallelUploads)
				for i, path := range args {
					g.Go(func() error {
						id, err := sess.Shell.SubmitFile(cmd.Context(), path)
						ids[i] = id
						return err
					})
				}
				err := g.Wait()

				out := cmd.OutOrStdout()
				for i, id := range ids {
					if id == "" {
						continue
					}
					if len(args) == 1 {
						fmt.Fprintln(out, id)
					} else {
						fmt.Fprintf(out, "%s\t%s\n", id, args[i])
					}
				}
				return err
			})
		},
	}
}

func newSubmitURLCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "submit-url <url>",
		Short: "Ask the backend to fetch and transcribe a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(opts, func(sess *app.Session) error {
				id, err := sess.Shell.SubmitURL(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "status <job>",
		Short: "Print the backend's status payload for a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			render, err := statusRenderer(output)
			if err != nil {
				return err
			}
			return withSession(opts, func(sess *app.Session) error {
				raw, err := sess.Shell.GetStatus(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				text, err := render(raw)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	return cmd
}

func newDownloadCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "download <job> <format> <save-path>",
		Short: "Save a finished job's result (" + strings.Join(backend.Formats, ", ") + ")",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(opts, func(sess *app.Session) error {
				saved, err := sess.Shell.DownloadResult(cmd.Context(), args[0], args[1], args[2])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), saved)
				return nil
			})
		},
	}
}

func newReadCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "read <path>",
		Short: "Print a local text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(opts, func(sess *app.Session) error {
				text, err := sess.Shell.ReadLocalFile(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}
}

func newCancelCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <job>",
		Short: "Delete a job on the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(opts, func(sess *app.Session) error {
				if _, err := sess.Shell.CancelJob(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cancelled %s\n", args[0])
				return nil
			})
		},
	}
}
