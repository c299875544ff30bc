package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/user-none/yaffe/jobs"
)

// maxRemoteImage bounds the size of a downloaded image.
const maxRemoteImage = 32 << 20

// Loader reads and decodes asset files on worker goroutines.
type Loader struct {
	Client *http.Client
}

// NewLoader creates a loader using client for remote images. A nil client
// uses http.DefaultClient.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{Client: client}
}

// Handle is the jobs.Handler for jobs.KindLoadImage. Images decode to
// *RawImage; fonts return their file bytes for the UI thread to parse.
func (l *Loader) Handle(ctx context.Context, job jobs.Job) (any, error) {
	j, ok := job.(jobs.LoadImage)
	if !ok {
		return nil, fmt.Errorf("unexpected job %s", job.Kind())
	}

	data, err := l.read(ctx, j.Path)
	if err != nil {
		return nil, err
	}
	if key, ok := j.Key.(Key); ok && key.Kind == KindStaticFont {
		return data, nil
	}
	if j.Font {
		return data, nil
	}
	return DecodeImage(data)
}

func (l *Loader) read(ctx context.Context, path string) ([]byte, error) {
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", path, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteImage))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// DecodeImage decodes png, jpeg, webp or bmp data into RGBA pixels.
func DecodeImage(data []byte) (*RawImage, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return toRGBA(img), nil
}

func toRGBA(img image.Image) *RawImage {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) || rgba.Stride != 4*b.Dx() {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return &RawImage{Pixels: rgba.Pix, Width: b.Dx(), Height: b.Dy()}
}
