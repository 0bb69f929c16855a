package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"frameprep/config"
	"frameprep/httpsrv"
	"frameprep/log"
	"frameprep/media/extract"
	"frameprep/media/processes"
	"frameprep/media/source"
	"frameprep/metrics"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configFile string
	d := config.Default()

	cmd := &cobra.Command{
		Use:   "frameprep [video-path]",
		Short: "Extract enhanced, subsampled JPEG frames from a video",
		Long: `frameprep reads a video, keeps roughly 15 frames per second of footage,
resizes each kept frame to 1280x720, sharpens it, equalizes its luminance with CLAHE
and writes it as frame_NNNNN.jpg into an interim directory named after the video.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				v.Set("input.path", args[0])
			}
			conf, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), conf)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file (default ./config.toml if present)")
	flags.String("backend", d.Source.Backend, "video decoding backend: opencv or ffmpeg")
	flags.String("out", d.Output.Dir, "output directory (default <interim-root>/<video>_frames)")
	flags.String("interim-root", d.Output.InterimRoot, "root directory for derived output directories")
	flags.Float64("target-fps", d.Sampling.TargetFPS, "frames kept per second of source video")
	flags.Int("quality", d.Output.JPEGQuality, "JPEG quality 1-100")
	flags.String("log-level", d.Log.Level, "log level")
	flags.String("log-format", d.Log.Format, "log format: text or json")
	flags.Int("monitor-port", d.Monitor.Port, "serve /prometheus and pprof on this port, 0 disables")

	bindings := map[string]string{
		"source.backend":      "backend",
		"output.dir":          "out",
		"output.interim_root": "interim-root",
		"sampling.target_fps": "target-fps",
		"output.jpeg_quality": "quality",
		"log.level":           "log-level",
		"log.format":          "log-format",
		"monitor.port":        "monitor-port",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Errorf("bind flag %s: %w", name, err))
		}
	}
	return cmd
}

func run(ctx context.Context, conf config.Config) error {
	if err := log.Init(conf.Log.Level, conf.Log.Format); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.WithFields(ctx, logrus.Fields{
		"app": "frameprep",
	})
	log.Debugf(ctx, "config: %+v", conf)

	if conf.Monitor.Port > 0 {
		monitor := httpsrv.NewMonitor(httpsrv.MonitorArgs{Port: conf.Monitor.Port})
		monitor.Start(ctx)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := monitor.Shutdown(shutdownCtx); err != nil {
				log.Warnf(ctx, "monitor shutdown: %v", err)
			}
		}()
	}

	open, err := source.NewOpener(conf.Source.Backend)
	if err != nil {
		return err
	}
	outDir := conf.Output.Dir
	if outDir == "" {
		outDir = extract.OutputDir(conf.Output.InterimRoot, conf.Input.Path)
	}
	enhancer := processes.NewEnhanceProcess(processes.EnhanceArgs{
		Width:     conf.Enhance.Width,
		Height:    conf.Enhance.Height,
		ClipLimit: conf.Enhance.ClipLimit,
		TileGrid:  conf.Enhance.TileGrid,
	})
	defer enhancer.Close()

	extractor := extract.NewExtractor(extract.ExtractorArgs{
		Path:     conf.Input.Path,
		Open:     open,
		Enhancer: enhancer,
		Sink: processes.NewJPEGSinkProcess(processes.JPEGSinkArgs{
			Dir:     outDir,
			Quality: conf.Output.JPEGQuality,
		}),
		Recorder:      metrics.Prometheus{},
		TargetFPS:     conf.Sampling.TargetFPS,
		DefaultFPS:    conf.Sampling.DefaultFPS,
		ProgressEvery: conf.Output.ProgressEvery,
	})
	res, err := extractor.Run(ctx)
	if err != nil {
		return err
	}
	log.Infof(ctx, "%d frames read (%d undecodable), %d of %d sampled frames selected, %d saved, %d failed in %s",
		res.FramesRead, res.NullFrames, res.Selected, res.Expected, res.Saved, res.WriteFailures, res.Duration.Round(time.Millisecond))
	return nil
}
