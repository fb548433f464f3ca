// Package database provides SQLite storage for the photo manager.
//
// It handles storage and retrieval of:
//   - Image metadata, folders, albums, and tags
//   - User accounts and authentication sessions
//   - The recycle bin (soft-deleted images)
//   - Compiled search predicates lowered to SQL
//
// The database uses WAL mode for improved concurrent read performance
// and includes automatic schema initialization and migration.
package database
