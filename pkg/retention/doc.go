// Package retention enforces per-category retention windows over rotated
// log artifacts and their archival metadata.
//
// Each log category (application, security, performance) carries three
// windows: local days on the collection node's disk, archive days for the
// uploaded copy's metadata record, and a longer compliance window that is
// documented but never enforced by automatic deletion.
//
// A sweep is two tiers:
//
//  1. Local: delete files under the category's log directory whose
//     modification time precedes now - local_retention_days
//  2. Archive: delete ArchiveRecords whose archived_at precedes
//     now - archive_retention_days
//
// Every per-file and per-record failure is logged individually; one bad
// artifact never aborts the surrounding sweep.
package retention
