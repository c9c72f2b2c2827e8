package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/NethermindEth/gojourney/pkg/journey"
	"github.com/NethermindEth/gojourney/pkg/journey/setup"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API on API_IP_PORT",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupResult, err := setup.Setup(cmd.Context(), configFile(cmd))
			if err != nil {
				return err
			}

			j, err := newJourney(cmd, setupResult, false)
			if err != nil {
				return err
			}
			defer j.Close()

			serverDone, err := j.StartServer(cmd.Context())
			if err != nil {
				return err
			}

			<-cmd.Context().Done()
			slog.Info("shutting down")
			<-serverDone

			return nil
		},
	}
}

func newWorkerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume prompts from KAFKA_TOPIC_PROMPTS and publish results",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupResult, err := setup.Setup(cmd.Context(), configFile(cmd))
			if err != nil {
				return err
			}

			j, err := newJourney(cmd, setupResult, true)
			if err != nil {
				return err
			}
			defer j.Close()

			if err := j.StartWorker(cmd.Context()); err != nil && cmd.Context().Err() == nil {
				return err
			}

			slog.Info("shutting down")

			return nil
		},
	}
}

func configFile(cmd *cobra.Command) string {
	file, _ := cmd.Flags().GetString("config")
	return file
}

func newJourney(cmd *cobra.Command, setupResult *setup.SetupResult, withQueue bool) (*journey.Journey, error) {
	config, err := journey.NewJourneyConfigFromSetupResult(cmd.Context(), setupResult)
	if err != nil {
		return nil, err
	}

	if withQueue {
		if err := journey.WithQueue(config, setupResult); err != nil {
			return nil, err
		}
	}

	return journey.NewJourney(config)
}
