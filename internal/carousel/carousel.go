// Package carousel renders the five scenes of an Instagram carousel
// concurrently: it picks a background per scene, composes the overlay and
// records the written files in a manifest.
package carousel

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ifjuku/instapost/internal/genimage"
	"github.com/ifjuku/instapost/internal/overlay"
	"github.com/ifjuku/instapost/internal/source"
	"github.com/ifjuku/instapost/internal/system"
)

type Runner struct {
	Engine *overlay.Engine
	// Generator backs scenes without a file or deck page. Nil means the
	// placeholder; otherwise failures fall back to the placeholder after Retry.
	Generator genimage.Generator
	Retry     genimage.RetryPolicy
	// Workers bounds concurrent scenes; 0 means physical cores.
	Workers   int
	OutputDir string
	Logger    *zap.Logger
}

type job struct {
	index int
	scene Scene
	dir   string
	style string
	deck  source.Source
}

// Run renders every scene of plan under OutputDir/<run id>/ and writes the
// manifest there. Each scene gets its own output file.
func (r *Runner) Run(ctx context.Context, plan *Plan) (*Manifest, error) {
	if err := plan.Normalize(); err != nil {
		return nil, err
	}
	date, _ := plan.Time()

	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := r.Engine.Config()

	category := plan.Category
	if category == "" {
		category = cfg.CategoryFor(date)
	}
	id := plan.ID
	if id == "" {
		id = NewRunID(date, category)
	}
	dir := filepath.Join(r.OutputDir, id)

	var deck source.Source
	if plan.Deck != "" {
		var err error
		deck, err = source.Open(plan.Deck)
		if err != nil {
			return nil, fmt.Errorf("%w: deck %s: %w", overlay.ErrDecode, plan.Deck, err)
		}
		defer deck.Close()
	}

	gen := r.generator(logger)
	n := len(plan.Scenes)
	results := make([]SceneResult, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(system.ClampWorkers(r.Workers, n))

	for i, sc := range plan.Scenes {
		j := job{index: i, scene: sc, dir: dir, style: category, deck: deck}
		g.Go(func() error {
			res, err := r.renderScene(gctx, gen, j)
			if err != nil {
				return fmt.Errorf("scene %d (%s): %w", j.index+1, j.scene.Name, err)
			}
			results[j.index] = res
			logger.Info("scene ready", zap.Int("scene", j.index+1), zap.Int("total", n), zap.String("path", res.Path))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, res := range results {
		if res.Path == "" {
			return nil, fmt.Errorf("scene %d was not written", i+1)
		}
	}

	m := &Manifest{ID: id, Date: plan.Date, Category: category, Scenes: results}
	if err := WriteManifest(m, filepath.Join(dir, ManifestName)); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	return m, nil
}

func (r *Runner) generator(logger *zap.Logger) genimage.Generator {
	if r.Generator == nil {
		return genimage.Placeholder{}
	}
	policy := r.Retry
	if policy.MaxAttempts == 0 {
		policy = genimage.DefaultRetry()
	}
	return genimage.WithFallback(genimage.WithRetry(r.Generator, policy), genimage.Placeholder{}, logger)
}

func (r *Runner) renderScene(ctx context.Context, gen genimage.Generator, j job) (SceneResult, error) {
	if err := ctx.Err(); err != nil {
		return SceneResult{}, err
	}
	cfg := r.Engine.Config()

	bg, from, err := r.background(ctx, gen, j)
	if err != nil {
		return SceneResult{}, err
	}

	req := overlay.Request{
		Headline: j.scene.Headline,
		Subtext:  j.scene.Subtext,
		Style:    j.style,
	}
	switch j.scene.Name {
	case "content1", "content2", "content3":
		req.TitleSize = cfg.ContentFontSize
	case "thanks":
		req.QRCodeURL = cfg.Brand.URL
	}

	img, err := r.Engine.Render(bg, req)
	if err != nil {
		return SceneResult{}, err
	}

	out := filepath.Join(j.dir, fmt.Sprintf("%02d_%s.png", j.index+1, j.scene.Name))
	if err := overlay.WriteImage(img, out); err != nil {
		return SceneResult{}, err
	}
	return SceneResult{Index: j.index + 1, Name: j.scene.Name, Path: out, Source: from}, nil
}

// background picks, in order: the scene's own file, the brand thanks image
// for the thanks scene, the deck page, then the generator.
func (r *Runner) background(ctx context.Context, gen genimage.Generator, j job) (image.Image, string, error) {
	cfg := r.Engine.Config()

	load := func(path, from string) (image.Image, string, error) {
		img, err := source.Load(path)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %s: %w", overlay.ErrDecode, path, err)
		}
		return img, from, nil
	}

	switch {
	case j.scene.Background != "":
		return load(j.scene.Background, "file")
	case j.scene.Name == "thanks" && cfg.Brand.ThanksImage != "":
		return load(cfg.Brand.ThanksImage, "thanks")
	case j.deck != nil && j.index < j.deck.PageCount():
		img, err := j.deck.RenderPage(j.index)
		if err != nil {
			return nil, "", fmt.Errorf("%w: deck page %d: %w", overlay.ErrDecode, j.index+1, err)
		}
		return img, "deck", nil
	}

	size := genimage.Size{Width: cfg.Canvas.Width, Height: cfg.Canvas.Height}
	prompt := genimage.BuildPrompt(genimage.PromptInput{
		Brand:    cfg.Brand.Name,
		Category: j.style,
		Scene:    j.scene.Name,
		Headline: j.scene.Headline,
		Visual:   j.scene.Visual,
		Size:     size,
	})
	data, err := gen.Generate(ctx, prompt, size)
	if err != nil {
		return nil, "", err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: generated image: %w", overlay.ErrDecode, err)
	}
	return img, "generated", nil
}
