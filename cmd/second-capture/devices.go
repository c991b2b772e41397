package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/secondhq/second-capture/internal/app"
	"github.com/secondhq/second-capture/internal/audio"
	"github.com/secondhq/second-capture/internal/sidecar"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available audio input devices",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		devices, err := svc.Devices()
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			fmt.Println("No input devices found")
			return nil
		}
		for _, d := range devices {
			marker := "  "
			if d.Default {
				marker = "* "
			}
			fmt.Println(marker + d.Name)
		}
		return nil
	},
}
