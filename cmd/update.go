package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const repositorySlug = "s0up4200/ghiblidex"

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records the build metadata injected by main
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update ghiblidex to the latest release",
	RunE:  runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	current, err := semver.ParseTolerant(version)
	if err != nil {
		return fmt.Errorf("cannot update a development build (%s)", version)
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repositorySlug))
	if err != nil {
		return fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", repositorySlug)
	}

	if latest.LessOrEqual(current.String()) {
		fmt.Fprintf(cmd.OutOrStdout(), "Already up to date (%s)\n", current)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	logger.Info().
		Str("current", current.String()).
		Str("latest", latest.Version()).
		Msg("Updating")

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated to %s\n", latest.Version())
	return nil
}
