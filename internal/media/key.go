package media

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewKey builds a collision resistant storage key: <unix millis>-<random token><.ext>.
func NewKey(originalName string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), token, ext)
}
