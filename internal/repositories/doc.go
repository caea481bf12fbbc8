// Package repositories implements durable storage behind the FitHub state store.
//
// The state document lives under a single key in a [KV] backend:
//   - [SQLiteKV] : the default, a kv_store table in the local SQLite database
//   - [RedisKV] : an optional Redis string key
//
// [VideoRepository] keeps a history of generated videos in the same SQLite database.
package repositories
