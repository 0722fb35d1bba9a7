package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/OpenTraceLab/dxf2elmt/pkg/convert"
	"github.com/spf13/cobra"
)

var (
	splineStep   int
	pxPerMM      float64
	staticText   bool
	defaultColor string
	profilePath  string
	outputPath   string
	noLog        bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <drawing.dxf>",
	Short: "Convert a DXF drawing to a QElectroTech element",
	Long: `Convert a DXF drawing into a QElectroTech element file.

By default the element is written next to the input with the .elmt
extension, together with a .log conversion report. With --verbose the
element XML goes to stdout and no files are written.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().IntVar(&splineStep, "spline-step", 20, "polygon segments per spline")
	convertCmd.Flags().Float64Var(&pxPerMM, "px-per-mm", 2.0, "output pixels per drawing millimeter")
	convertCmd.Flags().BoolVar(&staticText, "static-text", false, "emit TEXT entities as static text objects")
	convertCmd.Flags().StringVar(&defaultColor, "color", "", "fallback text color as #rrggbb (default black)")
	convertCmd.Flags().StringVar(&profilePath, "profile", "", "YAML conversion profile")
	convertCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output element file (default: input with .elmt)")
	convertCmd.Flags().BoolVar(&noLog, "no-log", false, "skip writing the conversion report")
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	opts := convert.DefaultOptions()
	opts.Logger = newLogger()

	if profilePath != "" {
		profile, err := convert.LoadProfile(profilePath)
		if err != nil {
			return err
		}
		profile.Apply(&opts)
	}

	// Explicit flags win over profile values.
	if cmd.Flags().Changed("spline-step") {
		opts.SplineStep = splineStep
	}
	if cmd.Flags().Changed("px-per-mm") {
		opts.PxPerMM = pxPerMM
	}
	if cmd.Flags().Changed("static-text") {
		opts.StaticText = staticText
	}
	if cmd.Flags().Changed("color") {
		opts.DefaultColor = defaultColor
	}

	res, err := convert.File(input, opts)
	if err != nil {
		return err
	}

	if verbose {
		return res.Definition.WriteXML(os.Stdout)
	}

	elmtPath := outputPath
	if elmtPath == "" {
		elmtPath = replaceExt(input, ".elmt")
	}
	if err := writeElement(elmtPath, res); err != nil {
		return err
	}

	if !noLog {
		logPath := replaceExt(input, ".log")
		if err := writeReport(logPath, input, res); err != nil {
			return err
		}
	}

	fmt.Printf("Successfully converted %s (%d entities, %d objects, %d ms)\n",
		input, res.Stats.Total(), res.Emitted.Total(), res.Stats.ElapsedMS)
	return nil
}

func writeElement(path string, res *convert.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	defer file.Close()

	if err := res.Definition.WriteXML(file); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}

func writeReport(path, source string, res *convert.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create log file %s: %w", path, err)
	}
	defer file.Close()

	if err := convert.WriteReport(file, source, res); err != nil {
		return fmt.Errorf("failed to write log file %s: %w", path, err)
	}
	return nil
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
