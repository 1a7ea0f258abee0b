package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/G-Research/prometheus-rules-viewer/alertview"
	"github.com/G-Research/prometheus-rules-viewer/config"
	"github.com/G-Research/prometheus-rules-viewer/rulesclient"
)

// errViewFailed signals that the error notice was already rendered.
var errViewFailed = errors.New("alert rules could not be loaded")

type viewOptions struct {
	output    string
	noColor   bool
	noSpinner bool
}

func newViewCmd() *cobra.Command {
	o := &viewOptions{}
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Fetch alert rules from a backend and render them",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().String("url", "", "Base URL of the backend.")
	cmd.Flags().String("token", "", "Bearer token for the backend.")
	cmd.Flags().String("plugin-id", "", "Plugin ID whose resources are queried.")
	cmd.Flags().StringVarP(&o.output, "output", "o", "text", "Output format: text, table or html.")
	cmd.Flags().BoolVar(&o.noColor, "no-color", false, "Disable colored output.")
	cmd.Flags().BoolVar(&o.noSpinner, "no-spinner", false, "Do not draw the loading spinner.")
	keys := map[string]string{
		"url":       "client.url",
		"token":     "client.token",
		"plugin-id": "plugin-id",
	}

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		c, err := loadConfig(cmd, keys)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return o.run(ctx, c, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}
	return cmd
}

func (o *viewOptions) run(ctx context.Context, c *config.Config, out, errOut io.Writer) error {
	render, err := o.renderer(c)
	if err != nil {
		return err
	}

	view := alertview.New(rulesclient.New(c.Client.URL, c.Client.Token), alertview.WithPluginID(c.PluginID))
	view.Mount(ctx)
	defer view.Dispose()

	if o.noSpinner {
		select {
		case <-view.Done():
		case <-ctx.Done():
		}
	} else {
		waitWithSpinner(ctx, errOut, view)
	}
	if ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), "interrupted while loading alert rules")
	}

	state := view.State()
	if err := render(out, alertview.Present(state)); err != nil {
		return err
	}
	if state.Phase == alertview.Failed {
		return errViewFailed
	}
	return nil
}

func (o *viewOptions) renderer(c *config.Config) (func(io.Writer, alertview.Page) error, error) {
	textOpts := alertview.TextOptions{NoColor: o.noColor}
	switch o.output {
	case "text":
		return func(w io.Writer, p alertview.Page) error { return alertview.RenderText(w, p, textOpts) }, nil
	case "table":
		return func(w io.Writer, p alertview.Page) error { return alertview.RenderTable(w, p, textOpts) }, nil
	case "html":
		return func(w io.Writer, p alertview.Page) error { return alertview.RenderHTML(w, p, c.Theme) }, nil
	}
	return nil, errors.Errorf("unknown output format %q, expected text, table or html", o.output)
}

// waitWithSpinner draws an indeterminate spinner on w until the view
// settles or ctx is done.
func waitWithSpinner(ctx context.Context, w io.Writer, view *alertview.View) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("loading alert rules"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-view.Done():
			_ = bar.Finish()
			return
		case <-ctx.Done():
			_ = bar.Clear()
			return
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}
