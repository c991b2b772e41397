package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/secondhq/second-capture/internal/app"
	"github.com/secondhq/second-capture/internal/sidecar"
)

var sidecarMessage string

var sidecarCmd = &cobra.Command{
	Use:   "sidecar",
	Short: "Start the transcription backend and send it one message",
	Long: `Spawn the Python sidecar, verify it with a health check, send a
single JSON message (the health probe by default), print the response, and
shut the backend down.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := app.New(app.Config{
			Sidecar: sidecar.New(logger),
			Config:  cfg,
			Logger:  logger,
		})

		if err := svc.StartSidecar(); err != nil {
			return err
		}
		defer func() {
			if err := svc.StopSidecar(); err != nil {
				logger.Error().Err(err).Msg("Stop sidecar")
			}
		}()

		message := map[string]any{"type": "health"}
		if sidecarMessage != "" {
			if err := json.Unmarshal([]byte(sidecarMessage), &message); err != nil {
				return fmt.Errorf("parse message: %w", err)
			}
		}

		response, err := svc.SendToSidecar(message)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(response, "", "  ")
		if err != nil {
			return fmt.Errorf("format response: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	sidecarCmd.Flags().StringVarP(&sidecarMessage, "message", "m", "", "JSON message to send (default: health probe)")
}
