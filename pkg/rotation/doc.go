// Package rotation implements policy-driven rotation of live log files for
// the Kestrel collection platform.
//
// # Architecture
//
//  1. Policy - named thresholds and behaviors (size/age/free-space triggers,
//     compression, archive target, artifact cap)
//  2. Handle - the per-file unit: evaluates triggers inline on the write
//     path and performs the rotation action under a per-file lock
//  3. Manager - loads named policies, binds handles to concrete files, and
//     exposes manual force-rotation for operators
//
// # Rotation Action
//
// When a trigger fires the handle closes the active stream, renames the
// file to {path}.{UTC timestamp}, gzips it at the configured level, hands
// the artifact to the archive manager's queue, prunes rotated siblings
// beyond max_files, and reopens a fresh active file:
//
//	Open → (trigger fires) → Rotating → Open
//
// Rename and compression failures abort the rotation attempt so the active
// file is never left in an inconsistent state. Archival and pruning are
// best-effort: their failures are logged and never block the writer.
//
// # Concurrency
//
// Each handle serializes check-then-rotate under its own mutex so a rotation
// triggered from the write path and one triggered from the scheduler cannot
// double-rotate the same file. Distinct files rotate independently.
package rotation
