// Package noteshare implements the file-backed note lifecycle for a
// multi-user note-sharing service: uploads into a remote object store,
// metadata persistence, search, owner-only deletion, and time-limited
// signed delivery of the stored files.
//
// # Key Components
//
//   - NoteService: lifecycle orchestration across the record store and
//     the object store, keeping rows and blobs consistent
//   - Relay: signed URL resolution plus fetch-and-relay for downloads
//     and inline PDF previews
//   - NoteRepo: interface for note metadata persistence (PostgreSQL, SQLite)
//   - ObjectStore: interface for the remote blob store (MinIO/S3,
//     Supabase-style storage REST)
//   - PutAck: normalization of the store's varying upload acknowledgement
//     shapes into one success decision
//
// # Consistency
//
// Uploads write the blob first and the row second, so a row never
// points at an unwritten blob. Deletes remove the blob first and the
// row second, so a store-side failure leaves a consistent, retryable
// state. The remaining window (blob written, row write failed) is
// narrowed by best-effort cleanup and closed out-of-band by
// NoteService.Reconcile.
//
// See the http package for the REST surface, the database package for
// metadata backends, and the objectstore packages for store clients.
package noteshare
