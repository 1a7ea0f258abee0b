package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/G-Research/prometheus-rules-viewer/backend"
	"github.com/G-Research/prometheus-rules-viewer/rulesclient"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the rules resource backend and the alert rules page",
		Args:  cobra.NoArgs,
	}
	keys := mergeKeys(addSourceFlags(cmd.Flags()), map[string]string{
		"listen":    "listen",
		"plugin-id": "plugin-id",
		"url":       "client.url",
		"token":     "client.token",
	})
	cmd.Flags().String("listen", "", "Address to listen on.")
	cmd.Flags().String("plugin-id", "", "Plugin ID the resource routes are mounted under.")
	cmd.Flags().String("url", "", "Base URL the alert rules page fetches rules from, normally this server.")
	cmd.Flags().String("token", "", "Bearer token sent by the alert rules page.")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		c, err := loadConfig(cmd, keys)
		if err != nil {
			return err
		}
		src, err := newSource(c)
		if err != nil {
			return err
		}

		srv := backend.New(src, backend.Options{
			PluginID:  c.PluginID,
			Namespace: c.Namespace,
			Theme:     c.Theme,
		})
		srv.UseViewBackend(rulesclient.New(c.Client.URL, c.Client.Token))
		srv.Registry().MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		hs := srv.HTTPServer(ctx, c.Listen)
		errCh := make(chan error, 1)
		go func() {
			log.WithField("listen", c.Listen).Info("serving")
			errCh <- hs.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
	return cmd
}
