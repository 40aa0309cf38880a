package service

import "time"

func utcNow() time.Time { return time.Now().UTC() }

func clockOrDefault(now func() time.Time) func() time.Time {
	if now == nil {
		return utcNow
	}
	return now
}
