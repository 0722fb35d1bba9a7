package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "dxf2elmt",
	Short: "dxf2elmt - Convert DXF drawings to QElectroTech elements",
	Long: `dxf2elmt converts DXF CAD drawings into QElectroTech element
files (.elmt) for use as schematic symbols.

Examples:
  dxf2elmt convert symbol.dxf              # Write symbol.elmt and symbol.log
  dxf2elmt convert -v symbol.dxf           # Print the element XML to stdout
  dxf2elmt convert --px-per-mm 4 motor.dxf # Convert at 4 px per mm
  dxf2elmt info symbol.dxf                 # Show entity statistics only`,
	Version: "0.4.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (element XML to stdout, debug logging)")
}

// newLogger builds the process logger; verbose lowers the level to
// debug.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
