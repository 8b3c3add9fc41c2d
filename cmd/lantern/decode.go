package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/srg/lantern/beacon"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <hex-payload>",
	Short: "Decode a raw advertisement payload",
	Long: `Decode a captured advertisement payload (hex encoded) and print the
beacon identity, distance estimate and proximity. Useful for checking
captured frames without a radio.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

var decodeRSSI int

func init() {
	decodeCmd.Flags().IntVarP(&decodeRSSI, "rssi", "r", 0, "Measured RSSI for distance estimation (0 = unknown)")
}

func runDecode(cmd *cobra.Command, args []string) error {
	raw := strings.NewReplacer(" ", "", ":", "").Replace(args[0])
	payload, err := hex.DecodeString(raw)
	if err != nil {
		return fmt.Errorf("invalid hex payload: %w", err)
	}

	cmd.SilenceUsage = true

	b, ok := beacon.Decode(payload, decodeRSSI, "")
	if !ok {
		return fmt.Errorf("payload is not a beacon advertisement")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "UUID:\t%s\n", b.UUID)
	fmt.Fprintf(w, "Major:\t%d\n", b.Major)
	fmt.Fprintf(w, "Minor:\t%d\n", b.Minor)
	fmt.Fprintf(w, "Calibrated power:\t%d dBm\n", b.CalibratedPower)
	fmt.Fprintf(w, "RSSI:\t%d dBm\n", b.RSSI)
	if b.Distance >= 0 {
		fmt.Fprintf(w, "Distance:\t%.2fm\n", b.Distance)
	} else {
		fmt.Fprintf(w, "Distance:\tunknown\n")
	}
	fmt.Fprintf(w, "Proximity:\t%s\n", b.Proximity)
	return w.Flush()
}
