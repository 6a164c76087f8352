package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/imageclip/imageclip-host/internal/acquire"
	"github.com/imageclip/imageclip-host/internal/clip"
	"github.com/imageclip/imageclip-host/internal/config"
	"github.com/imageclip/imageclip-host/internal/protocol"
	"github.com/imageclip/imageclip-host/internal/raster"
)

var (
	version = "0.1.0"
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "imageclip-host",
	Short: "Native companion host that copies full-resolution page images to the clipboard",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the native-messaging host on stdin/stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHost()
	},
}

var copyCmd = &cobra.Command{
	Use:   "copy [url]",
	Short: "Copy a single image URL to the clipboard and exit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return copyOnce(args[0])
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("imageclip-host v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: imageclip.yaml in the user config dir)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	// stdout carries the message protocol; everything diagnostic goes to
	// stderr.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildParts(cfg *config.Config) (*acquire.Pipeline, *clip.Delivery, error) {
	client := &http.Client{Timeout: time.Duration(cfg.FetchTimeoutSeconds) * time.Second}

	var creds http.Header
	if cfg.CookieHeader != "" {
		creds = http.Header{"Cookie": []string{cfg.CookieHeader}}
	}
	fetcher := &acquire.HTTPFetcher{Client: client, Credentials: creds}
	pipeline := acquire.New(fetcher, client, cfg.MaxEdge)

	backend, err := clip.NewBackend()
	if err != nil {
		return nil, nil, err
	}
	delivery := clip.NewDelivery(backend)
	delivery.Settle = time.Duration(cfg.SettleDelayMS) * time.Millisecond

	return pipeline, delivery, nil
}

func runHost() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	pipeline, delivery, err := buildParts(cfg)
	if err != nil {
		return err
	}

	if cfg.Debug {
		log.Printf("imageclip-host v%s starting (max edge %d)", version, cfg.MaxEdge)
	}

	host := protocol.New(os.Stdin, os.Stdout, protocol.Options{
		Pipeline:     pipeline,
		Delivery:     delivery,
		FocusTimeout: time.Duration(cfg.FocusTimeoutMS) * time.Millisecond,
		MaxEdge:      cfg.MaxEdge,
		Debug:        cfg.Debug,
	})
	return host.Run()
}

func copyOnce(url string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	pipeline, delivery, err := buildParts(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	res := delivery.DeliverLazy(ctx, func(ctx context.Context) ([]byte, error) {
		data, _, err := pipeline.Acquire(ctx, acquire.ImageReference{URL: url})
		if err != nil {
			return nil, err
		}
		return raster.Normalize(data, cfg.MaxEdge)
	})
	if !res.OK {
		return fmt.Errorf("copy failed: %s", res.ErrorDetail)
	}

	fmt.Println("copied")
	return nil
}
