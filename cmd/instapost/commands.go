package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ifjuku/instapost/internal/carousel"
	"github.com/ifjuku/instapost/internal/config"
	"github.com/ifjuku/instapost/internal/fonts"
	"github.com/ifjuku/instapost/internal/genimage"
	"github.com/ifjuku/instapost/internal/overlay"
)

var (
	composeOut       string
	composeStyle     string
	composeTitleSize int
	composeQR        string

	planPath       string
	carouselOut    string
	workers        int
	imageModel     string
	offline        bool
	forceOverwrite bool
)

var composeCmd = &cobra.Command{
	Use:   "compose <background> <headline> [subtext]",
	Short: "Draw a headline and subtext over one background",
	Long: `Normalizes the background to the configured canvas, draws the text and
writes the result. Without --out the background file is replaced.

Headlines may contain line breaks or a literal "\n".`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runCompose,
}

var carouselCmd = &cobra.Command{
	Use:   "carousel",
	Short: "Render a five-scene carousel from a plan file",
	Long: `Reads a YAML plan with five scenes (cover, content1-3, thanks) and
renders them concurrently into <out>/<run id>/ with a manifest.yaml.

Scenes without a background image are generated with Gemini when
GEMINI_API_KEY is set, otherwise a placeholder background is used.`,
	RunE: runCarousel,
}

var fontsCmd = &cobra.Command{
	Use:   "fonts",
	Short: "Show which font the overlay will use",
	RunE:  runFonts,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Overlay configuration helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	composeCmd.Flags().StringVarP(&composeOut, "out", "o", "", "output path, .png or .jpg (default: overwrite background)")
	composeCmd.Flags().StringVarP(&composeStyle, "style", "s", config.DefaultStyle, "style key")
	composeCmd.Flags().IntVar(&composeTitleSize, "title-size", 0, "override the title font size")
	composeCmd.Flags().StringVar(&composeQR, "qr", "", "stamp a QR code for this URL")

	carouselCmd.Flags().StringVarP(&planPath, "plan", "p", "", "plan YAML")
	carouselCmd.Flags().StringVarP(&carouselOut, "out", "o", "output", "output root")
	carouselCmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent scenes (0: physical cores)")
	carouselCmd.Flags().StringVar(&imageModel, "model", genimage.DefaultImageModel, "Gemini image model")
	carouselCmd.Flags().BoolVar(&offline, "offline", false, "never call Gemini")
	_ = carouselCmd.MarkFlagRequired("plan")

	configInitCmd.Flags().BoolVarP(&forceOverwrite, "force", "f", false, "overwrite an existing file")
}

func newEngine() (*overlay.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return overlay.New(cfg, overlay.WithLogger(logger))
}

func runCompose(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}

	req := overlay.Request{
		Background: args[0],
		Output:     composeOut,
		Headline:   args[1],
		Style:      composeStyle,
		TitleSize:  composeTitleSize,
		QRCodeURL:  composeQR,
	}
	if len(args) == 3 {
		req.Subtext = args[2]
	}

	out, err := engine.Compose(req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "[+] %s\n", out)
	return nil
}

func runCarousel(cmd *cobra.Command, args []string) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := newEngine()
	if err != nil {
		return err
	}
	plan, err := carousel.ReadPlan(planPath)
	if err != nil {
		return err
	}

	runner := &carousel.Runner{
		Engine:    engine,
		Generator: imageGenerator(ctx, cmd),
		Workers:   workers,
		OutputDir: carouselOut,
		Logger:    logger,
	}

	fmt.Fprintf(cmd.OutOrStdout(), "[*] %s: %d scenes\n", plan.Date, len(plan.Scenes))
	m, err := runner.Run(ctx, plan)
	if err != nil {
		return err
	}
	for _, s := range m.Scenes {
		fmt.Fprintf(cmd.OutOrStdout(), "[+] %02d %-8s %-9s %s\n", s.Index, s.Name, s.Source, s.Path)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "[+++] %s (%s)\n", m.ID, m.Category)
	return nil
}

// imageGenerator returns nil, which the runner treats as the placeholder,
// when Gemini is disabled or cannot be reached.
func imageGenerator(ctx context.Context, cmd *cobra.Command) genimage.Generator {
	if offline {
		return nil
	}
	gen, err := genimage.NewGemini(ctx, os.Getenv("GEMINI_API_KEY"), imageModel)
	if err != nil {
		if errors.Is(err, genimage.ErrUnavailable) {
			fmt.Fprintf(cmd.OutOrStdout(), "[!] %v, using placeholder backgrounds\n", err)
		}
		logger.Warn("image generation disabled", zap.Error(err))
		return nil
	}
	return gen
}

func runFonts(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, p := range fonts.DefaultCandidates() {
		mark := " "
		if _, err := os.Stat(p); err == nil {
			mark = "*"
		}
		fmt.Fprintf(w, "  %s %s\n", mark, p)
	}

	found := fonts.Resolve(engine.Config().FontPath, fonts.DefaultCandidates())
	path := engine.FontPath()
	if found != "" && found != path {
		fmt.Fprintf(w, "[!] %s cannot be parsed\n", found)
	}
	if path == "" {
		fmt.Fprintln(w, "[!] no usable CJK font found, using Go Regular")
		return nil
	}
	fmt.Fprintf(w, "[+] %s\n", path)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := "instapost.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !forceOverwrite {
		return fmt.Errorf("%s already exists (use --force)", path)
	}
	if err := config.Save(config.Default(), path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "[+] %s\n", path)
	return nil
}
