package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AuthRateLimitKey returns the fixed-window counter key for an IP and window index.
func (r *CacheKeyStruct) AuthRateLimitKey(ip string, window int64) string {
	return fmt.Sprintf("ratelimit:auth:%s:%d", ip, window)
}

// UserNotificationChannel returns the Redis PubSub channel carrying a user's notification events.
func (r *CacheKeyStruct) UserNotificationChannel(userID string) string {
	return fmt.Sprintf("user:%s:notifications", userID)
}

var CacheKey = NewCacheKeyStruct()
