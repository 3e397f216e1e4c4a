package store

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"intentrelay.app/relay/internal/model"
)

func toPgTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func intPtrToInt32(v *int) *int32 {
	if v == nil {
		return nil
	}
	i := int32(*v)
	return &i
}

func tierPtrToString(t *model.Tier) *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

// nonNil keeps TEXT[] NOT NULL columns from receiving a SQL NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
