package validation

import (
	"fmt"
	"strings"
)

const (
	// MinDescriptionLen is measured after trimming surrounding whitespace.
	MinDescriptionLen = 10
	MaxDescriptionLen = 1000
	MinImages         = 1
	MaxImages         = 5
)

// ValidateDescription checks contribution description length bounds.
// Length is counted on the trimmed string, so padding cannot satisfy the
// minimum.
func ValidateDescription(description string) error {
	trimmed := strings.TrimSpace(description)
	if len(trimmed) < MinDescriptionLen {
		return fmt.Errorf("description must be at least %d characters (currently %d)", MinDescriptionLen, len(trimmed))
	}
	if len(trimmed) > MaxDescriptionLen {
		return fmt.Errorf("description must be at most %d characters (currently %d)", MaxDescriptionLen, len(trimmed))
	}
	return nil
}

// ValidateImages checks the image reference list: 1 to 5 non-empty URLs.
// The platform never stores binary image data, only hosted references.
func ValidateImages(images []string) error {
	if len(images) < MinImages {
		return fmt.Errorf("at least one image is required")
	}
	if len(images) > MaxImages {
		return fmt.Errorf("a contribution can have at most %d images", MaxImages)
	}
	for i, url := range images {
		if strings.TrimSpace(url) == "" {
			return fmt.Errorf("image %d is empty", i+1)
		}
	}
	return nil
}
