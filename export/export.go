package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/SYCompass/syrianzone-tierlist/logging"
	"github.com/SYCompass/syrianzone-tierlist/tierlist"
)

// DefaultCaption is the watermark text when none is configured.
const DefaultCaption = "syrian.zone/tierlist"

const jpegQuality = 90

// Options configures an Exporter.
type Options struct {
	// Width is the requested canvas width; the canvas may come out wider
	// when the watermark needs the room. 0 means DefaultWidth.
	Width int
	// FontPath and BoldFontPath point at TTF files. Empty paths fall back
	// to the bundled Go fonts.
	FontPath     string
	BoldFontPath string
	// LogoPath is an optional logo for the watermark band.
	LogoPath string
	Caption  string
	// OutputDir is where Export writes the file. "" means the working dir.
	OutputDir string

	HTTPClient *http.Client
}

// Exporter rasterizes tier snapshots into shareable images.
type Exporter struct {
	opts   Options
	faces  *faceSet
	logo   image.Image
	client *http.Client
}

// NewExporter loads fonts and the logo up front so Export can be called
// repeatedly without re-parsing them.
func NewExporter(opts Options) (*Exporter, error) {
	faces, err := loadFaces(opts.FontPath, opts.BoldFontPath)
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}

	e := &Exporter{opts: opts, faces: faces, client: opts.HTTPClient}
	if e.client == nil {
		e.client = &http.Client{}
	}
	if opts.LogoPath != "" {
		logo, err := imaging.Open(opts.LogoPath)
		if err != nil {
			return nil, fmt.Errorf("load logo: %w", err)
		}
		e.logo = imaging.Resize(logo, 0, logoHeight, imaging.Lanczos)
	}
	return e, nil
}

// Render rasterizes the snapshot: layout sizing, asset preparation, the
// tier draw pass, then the watermark band. No pixel is drawn before every
// asset fetch has settled.
func (e *Exporter) Render(ctx context.Context, snap tierlist.Snapshot) (image.Image, error) {
	l := computeLayout(snap, e.opts.Width, e.watermarkMinWidth())
	assets := e.prepareAssets(ctx, snap)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	canvas := image.NewRGBA(image.Rect(0, 0, l.width, l.height))
	fillRect(canvas, canvas.Bounds(), backgroundColor)

	for _, t := range l.tiers {
		e.drawTier(canvas, l, t, snap[t.key], assets)
	}
	e.drawWatermark(canvas, l)
	return canvas, nil
}

// Encode serializes the image, preferring JPEG and falling back to PNG
// when JPEG encoding fails. It returns the bytes and the file extension.
func (e *Exporter) Encode(img image.Image) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err == nil {
		return buf.Bytes(), "jpg", nil
	}
	buf.Reset()
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), "png", nil
}

// Export renders the snapshot and writes tier-list.jpg (or .png) into the
// output dir, returning the written path.
func (e *Exporter) Export(ctx context.Context, snap tierlist.Snapshot) (string, error) {
	img, err := e.Render(ctx, snap)
	if err != nil {
		return "", err
	}
	data, ext, err := e.Encode(img)
	if err != nil {
		return "", err
	}

	dir := e.opts.OutputDir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, "tier-list."+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	logging.Log.Infof("EXPORT: wrote %s", path)
	return path, nil
}

func (e *Exporter) caption() string {
	if e.opts.Caption != "" {
		return e.opts.Caption
	}
	return DefaultCaption
}

// watermarkMinWidth is the canvas width below which the caption and logo
// would clip.
func (e *Exporter) watermarkMinWidth() int {
	w := textWidth(e.faces.caption, e.caption()) + 2*watermarkMargin
	if e.logo != nil {
		w += e.logo.Bounds().Dx() + watermarkGap
	}
	return w
}

func (e *Exporter) drawTier(canvas *image.RGBA, l layout, t tierLayout, entries []tierlist.SnapshotEntry, assets map[string]image.Image) {
	// Colored label column with the tier letter and its Arabic gloss.
	label := image.Rect(0, t.y, labelWidth, t.y+t.height)
	fillRect(canvas, label, tierColors[t.key])
	centerY := t.y + t.height/2
	drawTextCentered(canvas, e.faces.letter, string(t.key), labelWidth/2, centerY+8, labelTextColor)
	drawTextCentered(canvas, e.faces.gloss, tierGloss[t.key], labelWidth/2, centerY+30, labelTextColor)

	content := image.Rect(labelWidth, t.y, l.width, t.y+t.height)
	drawDashedRect(canvas, content, borderColor)

	for i, entry := range entries {
		x, y := l.cardAt(t, i, len(entries))
		e.drawCard(canvas, entry, x, y, assets)
	}
}

func (e *Exporter) drawCard(canvas *image.RGBA, entry tierlist.SnapshotEntry, x, y int, assets map[string]image.Image) {
	avatarX := x + (cardWidth-avatarSize)/2
	if avatar := assets[entry.ImageURL]; avatar != nil {
		drawRounded(canvas, avatar, image.Pt(avatarX, y), avatarSize, avatarSize, cornerRadius)
	} else {
		drawPlaceholder(canvas, image.Pt(avatarX, y))
	}

	cx := x + cardWidth/2
	textY := y + avatarSize + 20
	for _, line := range wrapText(e.faces.name, entry.Name, cardWidth, 2) {
		drawTextCentered(canvas, e.faces.name, line, cx, textY, nameColor)
		textY += e.faces.name.Metrics().Height.Ceil()
	}
	if entry.Title != "" {
		drawTextCentered(canvas, e.faces.title, entry.Title, cx, textY, titleColor)
	}
}

func (e *Exporter) drawWatermark(canvas *image.RGBA, l layout) {
	caption := e.caption()
	captionW := textWidth(e.faces.caption, caption)

	total := captionW
	if e.logo != nil {
		total += e.logo.Bounds().Dx() + watermarkGap
	}
	x := (l.width - total) / 2
	centerY := l.watermarkY + watermarkHeight/2

	if e.logo != nil {
		logoAt := image.Pt(x, centerY-logoHeight/2)
		bounds := e.logo.Bounds()
		r := image.Rectangle{Min: logoAt, Max: logoAt.Add(bounds.Size())}
		draw.Draw(canvas, r, e.logo, bounds.Min, draw.Over)
		x += bounds.Dx() + watermarkGap
	}

	baseline := centerY + e.faces.caption.Metrics().Ascent.Ceil()/2
	drawTextCentered(canvas, e.faces.caption, caption, x+captionW/2, baseline, captionColor)
}
