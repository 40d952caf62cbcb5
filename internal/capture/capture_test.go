package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-variants/internal/fetch"
)

var fixedNow = time.Date(2026, 3, 7, 9, 30, 0, 0, time.UTC)

type stubFetcher struct {
	html string
	err  error
}

func (s stubFetcher) Fetch(_ context.Context, urlStr string) (*fetch.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &fetch.Result{URL: urlStr, HTML: s.html, StatusCode: 200}, nil
}

func newTestCapturer(html string, opts ...Option) *Capturer {
	base := []Option{WithFetcher(stubFetcher{html: html}), WithClock(func() time.Time { return fixedNow })}
	return New(append(base, opts...)...)
}

const greenhousePage = `<html><head><title>Platform Engineer - Acme</title></head><body>
<div class="job__description body">
<h1>Platform Engineer</h1>
<p>We are hiring a Platform Engineer to run Kubernetes.</p>
<ul><li>Terraform</li><li>Go</li></ul>
</div>
<div id="application-form"><form>Apply</form></div>
</body></html>`

func TestFromURL(t *testing.T) {
	c := newTestCapturer(greenhousePage)

	posting, err := c.FromURL(context.Background(), "https://boards.greenhouse.io/acme/jobs/1")
	require.NoError(t, err)

	assert.Equal(t, fetch.PlatformGreenhouse, posting.Platform)
	assert.Equal(t, "Platform Engineer - Acme", posting.Title)
	assert.True(t, strings.HasPrefix(posting.Text, "Platform Engineer\n"))
	assert.Contains(t, posting.Text, "Kubernetes")
	assert.NotContains(t, posting.Text, "Apply")
	assert.Equal(t, fixedNow, posting.CapturedAt)
	assert.Len(t, posting.Hash, 64)
}

func TestFromURL_FetchError(t *testing.T) {
	c := New(WithFetcher(stubFetcher{err: errors.New("connection refused")}))

	_, err := c.FromURL(context.Background(), "https://example.com/job")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch job posting")
}

func TestFromURL_EmptyPage(t *testing.T) {
	c := newTestCapturer(`<html><body><script>render()</script></body></html>`)

	_, err := c.FromURL(context.Background(), "https://example.com/job")
	assert.ErrorIs(t, err, ErrEmptyPosting)
}

func TestFromURL_RendererFallback(t *testing.T) {
	rendered := "<html><body><main><p>" + strings.Repeat("Rendered requirement. ", 40) + "</p></main></body></html>"
	calls := 0
	renderer := fetch.RendererFunc(func(context.Context, string) (string, error) {
		calls++
		return rendered, nil
	})

	c := newTestCapturer(`<html><body><main><p>Loading</p></main></body></html>`, WithRenderer(renderer))
	posting, err := c.FromURL(context.Background(), "https://example.com/job")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, posting.Text, "Rendered requirement.")
}

func TestFromURL_RendererFailureKeepsHTTPText(t *testing.T) {
	renderer := fetch.RendererFunc(func(context.Context, string) (string, error) {
		return "", errors.New("chrome missing")
	})

	c := newTestCapturer(`<html><body><main><p>Short posting</p></main></body></html>`, WithRenderer(renderer))
	posting, err := c.FromURL(context.Background(), "https://example.com/job")
	require.NoError(t, err)
	assert.Equal(t, "Short posting", posting.Text)
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posting.txt")
	require.NoError(t, os.WriteFile(path, []byte("Senior Engineer\r\n\r\n\r\n• Go\r\n"), 0o644))

	c := New(WithClock(func() time.Time { return fixedNow }))
	posting, err := c.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer\n\n- Go", posting.Text)
	assert.Empty(t, posting.URL)

	_, err = c.FromFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestFromText_HashIsDeterministic(t *testing.T) {
	c := New()
	a, err := c.FromText("Go   engineer ")
	require.NoError(t, err)
	b, err := c.FromText("Go engineer")
	require.NoError(t, err)
	assert.Equal(t, a.Hash, b.Hash)

	_, err = c.FromText(" \n\t ")
	assert.ErrorIs(t, err, ErrEmptyPosting)
}
