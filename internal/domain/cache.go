package domain

import "time"

// MenuCache is the persisted menu snapshot. The timestamp is epoch
// milliseconds to stay compatible with the layout older front-ends wrote.
type MenuCache struct {
	Data      []MenuItem `json:"data"`
	Timestamp int64      `json:"timestamp"`
}

// Age returns how long ago the snapshot was fetched.
func (c MenuCache) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(c.Timestamp))
}
