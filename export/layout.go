package export

import (
	"github.com/SYCompass/syrianzone-tierlist/tierlist"
)

// Fixed card geometry. The canvas grows to fit any number of entrants per
// tier; the cards themselves never change size.
const (
	// DefaultWidth is the requested canvas width when Options.Width is 0.
	DefaultWidth = 1080

	labelWidth   = 110
	cardWidth    = 120
	cardHeight   = 156
	cardGap      = 12
	rowGap       = 12
	tierPadY     = 16
	tierGap      = 8
	avatarSize   = 96
	cornerRadius = 14

	watermarkHeight = 72
	logoHeight      = 40
	watermarkGap    = 14
	watermarkMargin = 24
)

type tierLayout struct {
	key    tierlist.TierKey
	y      int
	height int
	rows   int
}

type layout struct {
	width      int
	height     int
	perRow     int
	tiers      []tierLayout
	watermarkY int
}

// computeLayout sizes the canvas for a snapshot. perRow is derived from
// the requested width; minWidth widens the canvas afterward when the
// watermark band needs more room, so rows are centered against the final
// width but never gain extra columns from the widening.
func computeLayout(snap tierlist.Snapshot, width, minWidth int) layout {
	if width <= 0 {
		width = DefaultWidth
	}
	perRow := (width - labelWidth + cardGap) / (cardWidth + cardGap)
	if perRow < 1 {
		perRow = 1
	}
	if minWidth > width {
		width = minWidth
	}

	l := layout{width: width, perRow: perRow, tiers: make([]tierLayout, 0, len(tierlist.TierOrder))}
	y := 0
	for _, k := range tierlist.TierOrder {
		rows := (len(snap[k]) + perRow - 1) / perRow
		if rows < 1 {
			rows = 1 // empty tiers keep a one-row bar
		}
		h := 2*tierPadY + rows*cardHeight + (rows-1)*rowGap
		l.tiers = append(l.tiers, tierLayout{key: k, y: y, height: h, rows: rows})
		y += h + tierGap
	}
	l.watermarkY = y
	l.height = y + watermarkHeight
	return l
}

// rowX returns the x of the first card in a row holding count cards,
// centered within the content area. Partial rows center under full ones.
func (l layout) rowX(count int) int {
	rowWidth := count*cardWidth + (count-1)*cardGap
	return labelWidth + (l.width-labelWidth-rowWidth)/2
}

// cardAt returns the top-left corner of the card at index i within a tier.
func (l layout) cardAt(t tierLayout, i, total int) (x, y int) {
	row := i / l.perRow
	col := i % l.perRow
	count := total - row*l.perRow
	if count > l.perRow {
		count = l.perRow
	}
	x = l.rowX(count) + col*(cardWidth+cardGap)
	y = t.y + tierPadY + row*(cardHeight+rowGap)
	return x, y
}
