package export

import (
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type faceSet struct {
	letter  font.Face
	gloss   font.Face
	name    font.Face
	title   font.Face
	caption font.Face
}

// loadFaces builds the faces used by the draw pass. A custom TTF can be
// supplied for scripts the bundled Go fonts do not cover; with no path the
// Go fonts are used.
func loadFaces(regularPath, boldPath string) (*faceSet, error) {
	regular, err := loadFont(regularPath, goregular.TTF)
	if err != nil {
		return nil, err
	}
	bold, err := loadFont(boldPath, gobold.TTF)
	if err != nil {
		return nil, err
	}

	fs := &faceSet{}
	if fs.letter, err = newFace(bold, 40); err != nil {
		return nil, err
	}
	if fs.gloss, err = newFace(regular, 13); err != nil {
		return nil, err
	}
	if fs.name, err = newFace(bold, 15); err != nil {
		return nil, err
	}
	if fs.title, err = newFace(regular, 12); err != nil {
		return nil, err
	}
	if fs.caption, err = newFace(regular, 16); err != nil {
		return nil, err
	}
	return fs, nil
}

func loadFont(path string, fallback []byte) (*opentype.Font, error) {
	data := fallback
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = b
	}
	return opentype.Parse(data)
}

func newFace(ft *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
