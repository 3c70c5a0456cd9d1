package sanity

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const imageCDNBase = "https://cdn.sanity.io/images"

// Reference points at another document or asset.
type Reference struct {
	Ref string `json:"_ref"`
}

// Image is the CMS image field: an asset reference plus editor crop data.
type Image struct {
	Type  string    `json:"_type,omitempty"`
	Asset Reference `json:"asset"`
	Alt   string    `json:"alt,omitempty"`
}

// ImageOptions are the CDN transformation parameters.
type ImageOptions struct {
	Width  int
	Height int
	Fit    string
	Format string
}

// ImageURL builds the CDN URL for an image asset reference of the form
// image-<id>-<width>x<height>-<ext>. It returns "" for references it cannot parse.
func ImageURL(projectID, dataset string, img *Image, opts ImageOptions) string {
	if img == nil {
		return ""
	}
	parts := strings.Split(img.Asset.Ref, "-")
	if len(parts) != 4 || parts[0] != "image" {
		return ""
	}
	id, dims, ext := parts[1], parts[2], parts[3]
	if id == "" || ext == "" || !validDimensions(dims) {
		return ""
	}

	u := fmt.Sprintf("%s/%s/%s/%s-%s.%s", imageCDNBase, projectID, dataset, id, dims, ext)

	q := url.Values{}
	if opts.Width > 0 {
		q.Set("w", strconv.Itoa(opts.Width))
	}
	if opts.Height > 0 {
		q.Set("h", strconv.Itoa(opts.Height))
	}
	if opts.Fit != "" {
		q.Set("fit", opts.Fit)
	}
	if opts.Format != "" {
		q.Set("fm", opts.Format)
	}
	if len(q) == 0 {
		return u
	}
	return u + "?" + q.Encode()
}

func validDimensions(dims string) bool {
	w, h, ok := strings.Cut(dims, "x")
	if !ok {
		return false
	}
	if _, err := strconv.Atoi(w); err != nil {
		return false
	}
	_, err := strconv.Atoi(h)
	return err == nil
}
