package xid

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// New returns a random identifier such as "po-1b4e28ba-2fa1-41d2-883f-0016d3cca427".
func New(prefix string) string {
	id, err := uuid.NewRandom()
	if err != nil {
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s-%s", prefix, id)
}
