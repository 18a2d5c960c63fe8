package redisx

import "time"

const (
	// Dedup of processed inputs: dedup:{scope}:{id}
	// (scope "update" = Telegram update id, "ledger" = event id)
	KeyDedup = "dedup:%s:%s"
)

var TTLDedup = 48 * time.Hour
