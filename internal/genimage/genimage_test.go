package genimage

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type stubGenerator struct {
	calls int
	fail  int
	err   error
	data  []byte
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string, size Size) ([]byte, error) {
	s.calls++
	if s.calls <= s.fail {
		return nil, s.err
	}
	return s.data, nil
}

func noWait(int) time.Duration { return 0 }

func TestRetryPolicy(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		fail      int
		err       error
		attempts  int
		wantCalls int
		wantErr   error
	}{
		{"first try", 0, boom, 3, 1, nil},
		{"succeeds on third", 2, boom, 3, 3, nil},
		{"exhausted", 5, boom, 3, 3, boom},
		{"unavailable is final", 5, ErrUnavailable, 3, 1, ErrUnavailable},
		{"zero attempts means one", 5, boom, 0, 1, boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubGenerator{fail: tt.fail, err: tt.err, data: []byte("img")}
			gen := WithRetry(stub, RetryPolicy{MaxAttempts: tt.attempts, Backoff: noWait})

			data, err := gen.Generate(context.Background(), "p", Size{10, 10})
			assert.Equal(t, tt.wantCalls, stub.calls)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []byte("img"), data)
		})
	}
}

func TestRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := RetryPolicy{MaxAttempts: 5, Backoff: func(int) time.Duration { return time.Hour }}

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- policy.Do(ctx, func(context.Context) error {
			calls++
			return errors.New("transient")
		})
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("retry did not stop on cancellation")
	}
	assert.Equal(t, 1, calls)
}

func TestExponential(t *testing.T) {
	b := Exponential(time.Second)
	assert.Equal(t, time.Second, b(1))
	assert.Equal(t, 2*time.Second, b(2))
	assert.Equal(t, 4*time.Second, b(3))
	assert.Equal(t, time.Second, b(0))
}

func TestFallback(t *testing.T) {
	primary := &stubGenerator{fail: 1, err: errors.New("quota"), data: []byte("primary")}
	secondary := &stubGenerator{data: []byte("secondary")}

	gen := WithFallback(primary, secondary, nil)
	data, err := gen.Generate(context.Background(), "p", Size{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []byte("secondary"), data)

	data, err = gen.Generate(context.Background(), "p", Size{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []byte("primary"), data)
	assert.Equal(t, 1, secondary.calls)
}

func TestFallbackStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	secondary := &stubGenerator{data: []byte("secondary")}
	gen := WithFallback(&stubGenerator{fail: 1, err: errors.New("x")}, secondary, nil)

	_, err := gen.Generate(ctx, "p", Size{1, 1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, secondary.calls)
}

func TestPlaceholder(t *testing.T) {
	data, err := Placeholder{}.Generate(context.Background(), "ignored", Size{1080, 1350})
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Pt(1080, 1350), img.Bounds().Size())

	r, g, b, _ := img.At(540, 200).RGBA()
	assert.Equal(t, [3]uint32{0x4a * 0x101, 0x90 * 0x101, 0xa4 * 0x101}, [3]uint32{r, g, b}, "brand band")

	again, err := Placeholder{}.Generate(context.Background(), "other prompt", Size{1080, 1350})
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

type fakeModels struct {
	resp  *genai.GenerateContentResponse
	err   error
	model string
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	return f.resp, f.err
}

func TestGeminiExtractsInlineImage(t *testing.T) {
	fake := &fakeModels{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "here you go"},
				{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}},
			}},
		}},
	}}
	g := &Gemini{models: fake, model: DefaultImageModel}

	data, err := g.Generate(context.Background(), "prompt", Size{1080, 1350})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)
	assert.Equal(t, DefaultImageModel, fake.model)
}

func TestGeminiErrors(t *testing.T) {
	textOnly := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: "no"}}}}},
	}

	g := &Gemini{models: &fakeModels{resp: textOnly}}
	_, err := g.Generate(context.Background(), "p", Size{1, 1})
	assert.ErrorIs(t, err, ErrNoImage)

	g = &Gemini{models: &fakeModels{resp: &genai.GenerateContentResponse{}}}
	_, err = g.Generate(context.Background(), "p", Size{1, 1})
	assert.ErrorIs(t, err, ErrNoImage)

	apiErr := errors.New("429")
	g = &Gemini{models: &fakeModels{err: apiErr}}
	_, err = g.Generate(context.Background(), "p", Size{1, 1})
	assert.ErrorIs(t, err, apiErr)
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(PromptInput{
		Brand:    "if塾",
		Category: "ai_column",
		Scene:    "cover",
		Headline: "AIで\n変わる学び",
		Visual:   "cyberpunk",
		Size:     Size{1080, 1350},
	})

	assert.Contains(t, p, "if塾")
	assert.Contains(t, p, "ai_column")
	assert.Contains(t, p, "AIで 変わる学び")
	assert.Contains(t, p, "1080x1350")
	assert.Contains(t, p, "Do not render any text")
}
