package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

type searchKeyInput struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// SearchPageKey derives the cache key for one result page. Case and
// whitespace differences in the query map to the same key.
func SearchPageKey(title, location string, page, pageSize int) string {
	b, _ := json.Marshal(searchKeyInput{
		Title:    normalize(title),
		Location: normalize(location),
		Page:     page,
		PageSize: pageSize,
	})
	sum := sha256.Sum256(b)
	return "jobs:search:" + hex.EncodeToString(sum[:])
}
