package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"time"

	"github.com/go-pdf/fpdf"
)

// PageWidth is the fixed width of the snapshot page in millimetres.
const PageWidth = 210.0

const imageName = "snapshot"

// PageSize is the page a raster of w x h pixels is placed on, keeping its
// aspect ratio at PageWidth.
func PageSize(w, h int) (float64, float64) {
	return PageWidth, PageWidth * float64(h) / float64(w)
}

// EmbedImage places img on a single PDF page of PageWidth whose height follows
// the image aspect ratio.
func EmbedImage(img image.Image, created time.Time) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, errors.New("empty raster")
	}

	var raster bytes.Buffer
	if err := png.Encode(&raster, img); err != nil {
		return nil, fmt.Errorf("encoding raster: %w", err)
	}

	w, h := PageSize(b.Dx(), b.Dy())

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imageName, opts, &raster)
	pdf.ImageOptions(imageName, 0, 0, w, h, false, opts, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}

	return out.Bytes(), nil
}
