package propertypages

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/vanderheijden86/modelbrowser/pkg/model"
)

// DefaultPictureName is the name given to pictures created from the toolbox.
const DefaultPictureName = "New Picture"

// ImageExtensions lists the file extensions offered when choosing a picture.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// UserError carries a message meant to be shown to the user as is.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }

func (e *UserError) Unwrap() error { return e.Err }

// PicturePage loads image files into a Picture element.
type PicturePage struct {
	element *model.Element
	graph   *model.Graph
}

// NewPicturePage creates a page for e.
func NewPicturePage(e *model.Element, g *model.Graph) *PicturePage {
	return &PicturePage{element: e, graph: g}
}

// Title implements Page.
func (p *PicturePage) Title() string { return "Picture" }

// OpenFile reads the image at path and stores it in the picture, together
// with its size. An unnamed picture is renamed after the file. When the file
// cannot be read or decoded the element is left unchanged and a *UserError
// is returned.
func (p *PicturePage) OpenFile(path string) error {
	fail := func(err error) error {
		return &UserError{
			Message: fmt.Sprintf("Unable to parse picture “%s”.", path),
			Err:     err,
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fail(err)
	}
	bounds := img.Bounds()

	err = p.graph.Transaction(func() error {
		if err := p.graph.SetAttr(p.element, model.AttrContent, base64.StdEncoding.EncodeToString(data)); err != nil {
			return err
		}
		if err := p.graph.SetSize(p.element, bounds.Dx(), bounds.Dy()); err != nil {
			return err
		}
		if name := p.element.Name(); name == "" || name == DefaultPictureName {
			if stem := SanitizeImageName(path); stem != "" {
				return p.graph.SetName(p.element, stem)
			}
		}
		return nil
	})
	if err != nil {
		return fail(err)
	}
	return nil
}

// SetDefaultSize resets the picture size to the natural size of its stored
// image. Pictures without content are left alone.
func (p *PicturePage) SetDefaultSize() error {
	content, ok := p.element.Attr(model.AttrContent)
	if !ok || content == "" {
		return nil
	}
	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return fmt.Errorf("decode picture content: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode picture: %w", err)
	}
	return p.graph.Transaction(func() error {
		return p.graph.SetSize(p.element, cfg.Width, cfg.Height)
	})
}

// SanitizeImageName derives an element name from a file path: the stem with
// every character other than letters, digits, space, underscore and hyphen
// replaced by an underscore.
func SanitizeImageName(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, stem)
}

// IsImageFile reports whether path has one of the ImageExtensions.
func IsImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
