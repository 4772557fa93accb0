package collection

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidItem wraps every validation failure.
var ErrInvalidItem = errors.New("invalid item")

func knownOption(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}

// Validate checks the fields required to list an item. It also drops blank
// image references in place.
func Validate(it *Item) error {
	it.Title = strings.TrimSpace(it.Title)
	it.Price = strings.TrimSpace(it.Price)
	it.Description = strings.TrimSpace(it.Description)
	it.Images = compactImages(it.Images)

	switch {
	case it.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidItem)
	case !knownOption(Categories, string(it.Category)):
		return fmt.Errorf("%w: unknown category %q", ErrInvalidItem, it.Category)
	case !knownOption(Periods, string(it.Period)):
		return fmt.Errorf("%w: unknown period %q", ErrInvalidItem, it.Period)
	case it.Price == "":
		return fmt.Errorf("%w: price is required", ErrInvalidItem)
	case it.Description == "":
		return fmt.Errorf("%w: description is required", ErrInvalidItem)
	case len(it.Images) == 0:
		return fmt.Errorf("%w: at least one image is required", ErrInvalidItem)
	}
	return nil
}

func compactImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if s := strings.TrimSpace(img); s != "" {
			out = append(out, s)
		}
	}
	return out
}
