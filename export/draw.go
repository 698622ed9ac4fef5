package export

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/SYCompass/syrianzone-tierlist/tierlist"
)

var (
	backgroundColor  = color.RGBA{0x18, 0x18, 0x1B, 0xFF}
	borderColor      = color.RGBA{0x3F, 0x3F, 0x46, 0xFF}
	nameColor        = color.RGBA{0xFA, 0xFA, 0xFA, 0xFF}
	titleColor       = color.RGBA{0xA1, 0xA1, 0xAA, 0xFF}
	labelTextColor   = color.RGBA{0x1C, 0x1C, 0x1E, 0xFF}
	placeholderColor = color.RGBA{0x2A, 0x2A, 0x2E, 0xFF}
	captionColor     = color.RGBA{0xD4, 0xD4, 0xD8, 0xFF}
)

var tierColors = map[tierlist.TierKey]color.RGBA{
	tierlist.TierS: {0xFF, 0x7F, 0x7F, 0xFF},
	tierlist.TierA: {0xFF, 0xBF, 0x7F, 0xFF},
	tierlist.TierB: {0xFF, 0xDF, 0x7F, 0xFF},
	tierlist.TierC: {0xFF, 0xFF, 0x7F, 0xFF},
	tierlist.TierD: {0xBF, 0xFF, 0x7F, 0xFF},
	tierlist.TierF: {0x7F, 0x9F, 0xFF, 0xFF},
}

// tierGloss is the Arabic caption under each tier letter.
var tierGloss = map[tierlist.TierKey]string{
	tierlist.TierS: "أسطوري",
	tierlist.TierA: "ممتاز",
	tierlist.TierB: "جيد",
	tierlist.TierC: "متوسط",
	tierlist.TierD: "ضعيف",
	tierlist.TierF: "سيئ",
}

func fillRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// drawDashedRect outlines r with a dashed 2px border.
func drawDashedRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	const dash, gap, thick = 6, 4, 2

	for x := r.Min.X; x < r.Max.X; x += dash + gap {
		end := x + dash
		if end > r.Max.X {
			end = r.Max.X
		}
		fillRect(dst, image.Rect(x, r.Min.Y, end, r.Min.Y+thick), c)
		fillRect(dst, image.Rect(x, r.Max.Y-thick, end, r.Max.Y), c)
	}
	for y := r.Min.Y; y < r.Max.Y; y += dash + gap {
		end := y + dash
		if end > r.Max.Y {
			end = r.Max.Y
		}
		fillRect(dst, image.Rect(r.Min.X, y, r.Min.X+thick, end), c)
		fillRect(dst, image.Rect(r.Max.X-thick, y, r.Max.X, end), c)
	}
}

// roundedMask is an alpha mask for a w by h rectangle with radius corners.
func roundedMask(w, h, radius int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	rr := radius * radius
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := 0, 0
			if x < radius && y < radius {
				dx, dy = radius-1-x, radius-1-y
			} else if x >= w-radius && y < radius {
				dx, dy = x-(w-radius), radius-1-y
			} else if x < radius && y >= h-radius {
				dx, dy = radius-1-x, y-(h-radius)
			} else if x >= w-radius && y >= h-radius {
				dx, dy = x-(w-radius), y-(h-radius)
			}
			if dx*dx+dy*dy <= rr {
				mask.SetAlpha(x, y, color.Alpha{A: 0xFF})
			}
		}
	}
	return mask
}

// drawRounded paints src at the given point through a rounded-corner mask.
func drawRounded(dst *image.RGBA, src image.Image, at image.Point, w, h, radius int) {
	mask := roundedMask(w, h, radius)
	r := image.Rect(at.X, at.Y, at.X+w, at.Y+h)
	draw.DrawMask(dst, r, src, src.Bounds().Min, mask, image.Point{}, draw.Over)
}

// drawPlaceholder paints the blank square used when an avatar failed.
func drawPlaceholder(dst *image.RGBA, at image.Point) {
	drawRounded(dst, image.NewUniform(placeholderColor), at, avatarSize, avatarSize, cornerRadius)
}

func textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// drawTextCentered draws s with its horizontal center at cx and its
// baseline at y.
func drawTextCentered(dst *image.RGBA, face font.Face, s string, cx, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(cx-textWidth(face, s)/2, y),
	}
	d.DrawString(s)
}

// wrapText word-wraps s to at most maxLines lines of maxWidth pixels,
// ellipsizing the last line when the text does not fit.
func wrapText(face font.Face, s string, maxWidth, maxLines int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		joined := current + " " + word
		if textWidth(face, joined) <= maxWidth {
			current = joined
			continue
		}
		lines = append(lines, current)
		current = word
		if len(lines) == maxLines {
			break
		}
	}
	lines = append(lines, current)

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		for len(last) > 0 && textWidth(face, string(last)+"…") > maxWidth {
			last = last[:len(last)-1]
		}
		lines[maxLines-1] = string(last) + "…"
	}
	return lines
}
