package pdfdoc

import (
	"bytes"
	"fmt"

	"github.com/digitorus/pdf"
)

// PageInfo is the media box size of one page, in points.
type PageInfo struct {
	Width  float64
	Height float64
}

type Info struct {
	Pages []PageInfo
	// Images counts distinct image XObjects reachable from any page.
	Images int
}

// Inspect reads back the page geometry of a PDF.
func Inspect(data []byte) (*Info, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	info := &Info{}
	seen := make(map[string]bool)
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			return nil, fmt.Errorf("page %d missing", i)
		}
		pi := PageInfo{}
		if box := inherited(page.V, "MediaBox"); box.Len() == 4 {
			pi.Width = box.Index(2).Float64() - box.Index(0).Float64()
			pi.Height = box.Index(3).Float64() - box.Index(1).Float64()
		}
		xobj := inherited(page.V, "Resources").Key("XObject")
		for _, name := range xobj.Keys() {
			if xobj.Key(name).Key("Subtype").Name() == "Image" && !seen[name] {
				seen[name] = true
				info.Images++
			}
		}
		info.Pages = append(info.Pages, pi)
	}
	return info, nil
}

// inherited looks key up on the page and then up the page tree.
func inherited(v pdf.Value, key string) pdf.Value {
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		if val := v.Key(key); !val.IsNull() {
			return val
		}
		v = v.Key("Parent")
	}
	return pdf.Value{}
}
