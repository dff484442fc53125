// Package archive provides durable off-box storage for rotated log
// artifacts produced by the Kestrel collection platform.
//
// # Architecture
//
// The archive system consists of three layers:
//
//  1. Backend - a pluggable upload destination (local directory, syslog
//     placeholder, S3-compatible object storage)
//  2. Manager - hashes rotated files, delegates uploads, and records
//     archival metadata on success
//  3. RecordStore - a SQLite table of ArchiveRecords, read by retention
//     sweeps and deleted once the archive window elapses
//
// # Upload Flow
//
// Rotation hands artifacts to the Manager asynchronously so a slow or
// unreachable backend never delays the writer:
//
//	Rotation → Enqueue (non-blocking)
//	     ↓
//	Worker pool
//	     ↓
//	SHA-256 (streamed, 64 KiB chunks)
//	     ↓
//	Backend.Upload (per-upload timeout)
//	     ↓
//	RecordStore.Store (success only)
//
// A failed upload leaves no record; the rotated file stays on local disk
// and is eventually capped by the rotation policy's max_files pruning.
//
// # Thread Safety
//
// Manager and RecordStore are safe for concurrent use. Backends must be
// safe for concurrent Upload calls.
package archive
