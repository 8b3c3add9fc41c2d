package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/srg/lantern/beacon"
	"github.com/srg/lantern/monitor"
	"github.com/srg/lantern/pkg/config"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for nearby proximity beacons",
	Long: `Continuously monitor for proximity beacons and display which ones
are currently present, with live distance and proximity estimates.

The radio is duty-cycled: it scans for a fixed window, then idles. The
idle gap shrinks while any beacon is present so that updates and
expirations stay responsive, and relaxes when nothing is around to save
power.`,
	RunE: runWatch,
}

var (
	watchConfigPath string
	watchUUIDFilter string
	watchFormat     string
	watchExpiration time.Duration
)

func init() {
	watchCmd.Flags().StringVarP(&watchConfigPath, "config", "c", "", "Path to YAML config file")
	watchCmd.Flags().StringVarP(&watchUUIDFilter, "uuid", "u", "", "Only track beacons with this proximity UUID")
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "table", "Output format (table, jsonl)")
	watchCmd.Flags().DurationVarP(&watchExpiration, "expiration", "e", 0, "Override beacon expiration interval")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchFormat != "table" && watchFormat != "jsonl" {
		return fmt.Errorf("invalid format '%s': must be table or jsonl", watchFormat)
	}

	cfg := config.Default()
	if watchConfigPath != "" {
		loaded, err := config.Load(watchConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if watchUUIDFilter != "" {
		cfg.UUIDFilter = watchUUIDFilter
	}
	if watchExpiration > 0 {
		cfg.ExpirationInterval = watchExpiration
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := configureLogger(cmd, cfg.LogLevel)
	if err != nil {
		return err
	}

	// All arguments validated - don't show usage on runtime errors
	cmd.SilenceUsage = true

	m := monitor.New(cfg, logger)
	if err := m.Start(); err != nil {
		return fmt.Errorf("failed to start beacon monitor: %w", err)
	}
	defer m.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if watchFormat == "jsonl" {
		return streamEvents(m, sigCh)
	}
	return watchTable(m, sigCh)
}

// streamEvents prints one JSON object per event until interrupted.
func streamEvents(m *monitor.Monitor, sigCh <-chan os.Signal) error {
	encoder := json.NewEncoder(os.Stdout)
	for {
		select {
		case <-sigCh:
			return nil
		case ev, ok := <-m.Events():
			if !ok {
				return nil
			}
			if err := encoder.Encode(ev); err != nil {
				return err
			}
		}
	}
}

// watchTable periodically redraws the table of present beacons.
func watchTable(m *monitor.Monitor, sigCh <-chan os.Signal) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	status := monitor.StatusScanning
	for {
		select {
		case <-sigCh:
			fmt.Println("\nCtrl+C pressed, stopping...")
			return nil
		case ev, ok := <-m.Events():
			if !ok {
				return nil
			}
			if ev.Type == monitor.EventStatusChanged {
				status = ev.Status
			}
		case <-ticker.C:
			clearScreen()
			if err := displayBeaconTable(m.Beacons(), status); err != nil {
				return err
			}
		}
	}
}

func displayBeaconTable(beacons []beacon.Beacon, status monitor.Status) error {
	var base io.Writer = os.Stdout

	fmt.Fprintf(base, "Scanner: %s\n\n", status)
	if len(beacons) == 0 {
		fmt.Fprintln(base, "No beacons present")
		return nil
	}

	sort.Slice(beacons, func(i, j int) bool {
		return beacons[i].Key() < beacons[j].Key()
	})

	w := tabwriter.NewWriter(base, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "UUID\tMAJOR\tMINOR\tRSSI\tDISTANCE\tPROXIMITY\tADDRESS")

	for _, b := range beacons {
		distance := "?"
		if b.Distance >= 0 {
			distance = fmt.Sprintf("%.2fm", b.Distance)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d dBm\t%s\t%s\t%s\n",
			b.UUID, b.Major, b.Minor, b.RSSI, distance,
			colorProximity(b.Proximity), b.Address)
	}

	return w.Flush()
}

func colorProximity(p beacon.Proximity) string {
	switch p {
	case beacon.ProximityImmediate:
		return color.GreenString(p.String())
	case beacon.ProximityNear:
		return color.YellowString(p.String())
	case beacon.ProximityFar:
		return color.RedString(p.String())
	default:
		return p.String()
	}
}

func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
