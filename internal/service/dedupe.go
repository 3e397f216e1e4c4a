package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"intentrelay.app/relay/internal/model"
)

// DedupeKey identifies one logical submission. A caller-supplied idempotency key wins;
// otherwise the key hashes channel, source, email and the submission time truncated to
// window, so a retried delivery inside the same window maps to the same lead.
func DedupeKey(idempotencyKey string, p model.IntentProfile, window time.Duration) string {
	if k := strings.TrimSpace(idempotencyKey); k != "" {
		return fmt.Sprintf("%s:key:%s", p.Channel, k)
	}

	at := p.ReceivedAt.UTC()
	if window > 0 {
		at = at.Truncate(window)
	}

	raw := strings.Join([]string{
		string(p.Channel),
		p.Source,
		strings.ToLower(strings.TrimSpace(p.Email)),
		fmt.Sprintf("%d", at.UnixMilli()),
	}, "|")

	sum := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s:%s", p.Channel, hex.EncodeToString(sum[:]))
}
