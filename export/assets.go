package export

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"

	// Avatar URLs arrive in whatever format the spreadsheet links to.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/SYCompass/syrianzone-tierlist/logging"
	"github.com/SYCompass/syrianzone-tierlist/tierlist"
)

const (
	maxAssetBytes = 20 << 20
	assetFetchers = 8
)

// prepareAssets fetches and transcodes every distinct avatar referenced by
// the snapshot, once each, in parallel. A failed fetch or decode maps to a
// nil image so the draw pass falls back to a placeholder; asset failures
// never abort the export. The returned map is complete before any drawing
// starts.
func (e *Exporter) prepareAssets(ctx context.Context, snap tierlist.Snapshot) map[string]image.Image {
	seen := make(map[string]struct{})
	var urls []string
	for _, k := range tierlist.TierOrder {
		for _, entry := range snap[k] {
			if entry.ImageURL == "" {
				continue
			}
			if _, ok := seen[entry.ImageURL]; ok {
				continue
			}
			seen[entry.ImageURL] = struct{}{}
			urls = append(urls, entry.ImageURL)
		}
	}

	results := make([]image.Image, len(urls))
	var g errgroup.Group
	g.SetLimit(assetFetchers)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			img, err := e.fetchImage(ctx, url)
			if err != nil {
				logging.Log.Warnf("EXPORT: avatar %s failed, using placeholder: %v", url, err)
				return nil
			}
			// Center-crop to a square at the drawn size; this also
			// re-encodes exotic source formats into plain RGBA.
			results[i] = imaging.Fill(img, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)
			return nil
		})
	}
	_ = g.Wait()

	assets := make(map[string]image.Image, len(urls))
	for i, url := range urls {
		assets[url] = results[i]
	}
	return assets
}

func (e *Exporter) fetchImage(ctx context.Context, url string) (image.Image, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return imaging.Open(url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxAssetBytes))
	return img, err
}
