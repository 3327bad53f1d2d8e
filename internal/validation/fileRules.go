package validation

import (
	"github.com/gabriel-vasile/mimetype"
)

// MaxLogoSize is the upper bound for an uploaded company logo, in bytes.
const MaxLogoSize = 5 * 1024 * 1024

var imageMimes = []string{"image/png", "image/jpeg", "image/jpg", "image/webp", "image/gif", "image/svg+xml"}

func CheckFileSize(fileSize, maxSize uint64) bool {
	return fileSize <= maxSize
}

func CheckFileMime(fileMime string) bool {
	return mimetype.EqualsAny(fileMime, imageMimes...)
}

// Logo checks size and sniffed content type of an uploaded logo.
func Logo(data []byte) error {
	errs := Errors{}
	if len(data) == 0 {
		errs["logo"] = "required"
		return errs
	}
	if !CheckFileSize(uint64(len(data)), MaxLogoSize) {
		errs["logo"] = "must be at most 5 MB"
		return errs
	}
	if mt := mimetype.Detect(data); !CheckFileMime(mt.String()) {
		errs["logo"] = "must be an image, got " + mt.String()
		return errs
	}
	return nil
}
