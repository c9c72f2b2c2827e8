package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NethermindEth/gojourney/pkg/journey"
	"github.com/NethermindEth/gojourney/pkg/journey/art"
	"github.com/NethermindEth/gojourney/pkg/journey/grid"
	"github.com/NethermindEth/gojourney/pkg/journey/setup"
)

func newImagineCommand() *cobra.Command {
	var (
		numImages   int
		aspectRatio string
		cacheDir    string
	)

	cmd := &cobra.Command{
		Use:   "imagine <prompt> <filename_prefix>",
		Short: "Generate images for a prompt and save them as <filename_prefix><i>.jpg",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, prefix := args[0], args[1]

			req := art.Request{
				Prompt:      prompt,
				NumImages:   numImages,
				AspectRatio: aspectRatio,
			}
			if err := req.Validate(); err != nil {
				return err
			}

			setupResult, err := setup.Setup(cmd.Context(), configFile(cmd))
			if err != nil {
				return err
			}
			if cacheDir != "" {
				setupResult.CacheBackend = setup.CacheFile
				setupResult.CacheDir = cacheDir
			}

			j, err := newJourney(cmd, setupResult, false)
			if err != nil {
				return err
			}
			defer j.Close()

			generation, err := j.Imagine(cmd.Context(), req)
			if err != nil {
				return err
			}

			return saveArtifacts(cmd, prefix, generation)
		},
	}

	cmd.Flags().IntVarP(&numImages, "num-images", "n", art.MaxImages, "number of images to keep (1-4)")
	cmd.Flags().StringVar(&aspectRatio, "aspect-ratio", "", "aspect ratio passed to the bot (default DEFAULT_ASPECT_RATIO)")
	cmd.Flags().StringVar(&cacheDir, "cache-file", "", "directory caching bot replies between runs")

	return cmd
}

func saveArtifacts(cmd *cobra.Command, prefix string, generation *journey.Generation) error {
	for _, artifact := range generation.Result.Artifacts {
		filename := fmt.Sprintf("%s%d.jpg", prefix, artifact.Index)
		if err := grid.SaveJPEG(artifact.Image, filename); err != nil {
			return fmt.Errorf("failed to save %s: %w", filename, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), filename)
	}
	return nil
}
