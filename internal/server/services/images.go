package services

import (
	"fmt"
	"net/http"

	"github.com/winelog/winelog/internal/common"
)

// Accepted upload formats. Everything is re-encoded to JPEG before storage,
// so the check only guards the inbound payload.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// validateImage rejects empty, oversized or non-image payloads before any
// upload or inference call happens.
func validateImage(data []byte, maxSize int64) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty image", common.ErrorValidation)
	}
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%w: image exceeds %d bytes", common.ErrorValidation, maxSize)
	}
	if ct := http.DetectContentType(data); !allowedImageTypes[ct] {
		return fmt.Errorf("%w: unsupported image type %s", common.ErrorValidation, ct)
	}
	return nil
}
