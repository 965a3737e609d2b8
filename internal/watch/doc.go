// Package watch rebuilds the site whenever its sources change.
//
// File system events from the watched roots are debounced into rebuild
// requests. A single worker runs builds one at a time and at most one request
// waits while a build is in progress; further requests arriving meanwhile are
// merged into that pending one.
package watch
