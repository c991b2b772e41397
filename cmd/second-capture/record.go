package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/secondhq/second-capture/internal/app"
	"github.com/secondhq/second-capture/internal/audio"
	"github.com/secondhq/second-capture/internal/sidecar"
)

var (
	recordDevice string
	recordOutput string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record from an input device until interrupted",
	Long: `Record microphone input to a timestamped WAV file in the recordings
directory. The session runs until Ctrl+C; the finalized file path is printed
on exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if recordOutput != "" {
			cfg.RecordingsDir = recordOutput
		}

		manager, err := audio.New(logger)
		if err != nil {
			return err
		}
		defer manager.Close()

		svc := app.New(app.Config{
			Recorder: manager,
			Sidecar:  sidecar.New(logger),
			Config:   cfg,
			Logger:   logger,
		})

		path, err := svc.StartRecording(recordDevice)
		if err != nil {
			return err
		}
		fmt.Printf("Recording to %s (press Ctrl+C to stop)\n", path)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		finalPath, err := svc.StopRecording()
		if err != nil {
			return err
		}
		fmt.Println(finalPath)
		return nil
	},
}

func init() {
	recordCmd.Flags().StringVarP(&recordDevice, "device", "d", "", "input device name (default: system default input)")
	recordCmd.Flags().StringVarP(&recordOutput, "output", "o", "", "recordings directory (overrides config)")
}
