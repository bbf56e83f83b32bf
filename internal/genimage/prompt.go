package genimage

import (
	"fmt"
	"strings"
)

// PromptInput describes the scene a background is generated for.
type PromptInput struct {
	Brand    string
	Category string
	Scene    string
	Headline string
	Visual   string
	Size     Size
}

// BuildPrompt assembles the image prompt. Headlines are overlaid later, so
// the model is asked to leave the title and caption bands free of text.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Instagram carousel background for %s", in.Brand)
	if in.Category != "" {
		fmt.Fprintf(&b, ", category %s", in.Category)
	}
	if in.Scene != "" {
		fmt.Fprintf(&b, ", scene %s", in.Scene)
	}
	b.WriteString(".\n")
	if in.Headline != "" {
		fmt.Fprintf(&b, "Theme: %s\n", strings.ReplaceAll(in.Headline, "\n", " "))
	}
	if in.Visual != "" {
		fmt.Fprintf(&b, "Visual style: %s\n", in.Visual)
	}
	fmt.Fprintf(&b, "Canvas: %dx%d portrait. Do not render any text; keep the top 25%% and bottom 20%% calm for overlaid captions.\n",
		in.Size.Width, in.Size.Height)
	return b.String()
}
