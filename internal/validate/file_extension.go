package validate

import (
	"path/filepath"
	"strings"

	"github.com/orsinium-labs/enum"
)

type fileExtension enum.Member[string]

var (
	FileExtensionDB  = fileExtension{Value: ".db"}
	FileExtensionCSV = fileExtension{Value: ".csv"}
)

// FileExtension returns true if the extension of filePath is in the list
// of allowed extensions. The comparison is case insensitive.
func FileExtension(
	filePath string,
	allowedExtensions ...fileExtension,
) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ext == "" {
		return false
	}

	for _, allowedExtension := range allowedExtensions {
		if ext == allowedExtension.Value {
			return true
		}
	}

	return false
}
