// Package http provides the HTTP API for the NoteShare service.
//
// This package implements a RESTful API for browsing, uploading, and
// downloading shared notes, with bearer-token authentication and
// JSON error responses.
//
// # Features
//
//   - Bearer token authentication with pluggable token stores
//   - Optional public read access (write routes always authenticate)
//   - Multipart file uploads with a configurable size cap
//   - Signed URL issuance, inline PDF preview, and attachment downloads
//   - Cursor-paginated search and per-owner listings
//   - Configurable CORS support
//
// # Routes
//
// All routes live under /api/notes:
//
//	GET    /api/notes               recent notes
//	GET    /api/notes/search        search by title or description
//	GET    /api/notes/mine          the caller's notes (authenticated)
//	GET    /api/notes/{id}          note metadata
//	GET    /api/notes/{id}/url      short-lived signed URL for the file
//	GET    /api/notes/{id}/preview  inline PDF bytes or redirect to the file
//	GET    /api/notes/{id}/download relayed download with attachment disposition
//	POST   /api/notes               multipart upload (authenticated)
//	DELETE /api/notes/{id}          owner-only delete (authenticated)
//
// # Authentication
//
// RequireUser resolves the Authorization bearer token against a
// noteshare.TokenStore and stores the user id in the request context:
//
//	tokens := tokenbackend.NewMapTokenStore(map[string]uuid.UUID{
//	    "dev-token": userID,
//	})
//	router.Use(http.RequireUser(tokens))
//
// Handlers recover the caller with UserFrom(ctx).
//
// # Usage
//
// Create a handler with HandlerConfig:
//
//	handlerCfg := http.HandlerConfig{
//	    Tokens:     tokens,
//	    PublicRead: true, // read routes skip authentication
//	}
//	handler := http.NewHandler(&handlerCfg, service, relay)
//	router := handler.Router()
//	http.ListenAndServe(":8080", router)
//
// The service parameter must implement the Service interface; the relay
// parameter must implement Deliverer (signed URLs, previews, downloads).
package http
