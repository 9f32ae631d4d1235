// Package auth supplies the endpoints and credentials used by a transfer.
//
// The transfer executor depends only on the Provider interface. Two
// implementations are included:
//
//   - [Basic] derives the endpoints from a base URL and builds a Basic
//     authorization header from a load user and password.
//   - [Static] returns fixed URLs and a fixed header, mostly for tests and
//     for callers that obtain credentials elsewhere.
//
// Headers returned by BuildHeaders are fresh copies on every call; the
// caller may clear them when done without affecting the provider.
package auth
