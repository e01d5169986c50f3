package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var wifiOnlyCmd = &cobra.Command{
	Use:       "wifi-only [on|off]",
	Short:     "Show or set whether streaming is restricted to wifi",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off"},
	RunE:      runWifiOnly,
}

func runWifiOnly(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	policy := newPolicy(store)
	if len(args) == 1 {
		enabled := args[0] == "on"
		if err := policy.SetWifiOnly(enabled); err != nil {
			return fmt.Errorf("save wifi-only: %w", err)
		}
		logger.Info().Bool("enabled", enabled).Msg("wifi-only updated")
	}

	onWifi := "no"
	if policy.OnWifi() {
		onWifi = "yes"
	}
	state := "off"
	if policy.WifiOnly() {
		state = "on"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wifi-only: %s\non wifi:   %s\n", state, onWifi)
	return nil
}
