package db

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key does not exist.
var ErrKeyNotFound = errors.New("key not found")

// RedisClient defines the methods available in the RedisClient
type RedisClient interface {
	Set(key, value string) error
	Get(key string) (string, error)
	// Keys returns the keys matching a glob pattern.
	Keys(pattern string) ([]string, error)
	Del(keys ...string) error
	AddLocationWithJSON(ctx context.Context, geoKey, memberKey string, lat, lon float64, data interface{}) error
	// GetLocationsWithinRadius returns the JSON stored for every member within
	// radius kilometers, nearest first.
	GetLocationsWithinRadius(key string, lat, lon, radius float64) ([]string, error)
	GetContext() context.Context
	Ping() error
}
