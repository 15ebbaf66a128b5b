package service

import (
	"fmt"

	"github.com/google/uuid"
)

// photoFilename derives the stored file name for an uploaded photo:
// "<breederID>_<token><ext>". The token is a fresh random 128-bit UUID per
// call; no existence check is made against storage, collision probability
// is treated as negligible rather than eliminated.
func photoFilename(breederID int64, ext string) string {
	return fmt.Sprintf("%d_%s%s", breederID, uuid.New().String(), ext)
}
