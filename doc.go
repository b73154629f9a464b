// Package main provides the entry point for the MaterialDesk service.
// It starts a web server using the Fiber framework that lets users share
// material records (a stored file plus metadata), tag them with categories,
// collect other users' materials, and search the catalog through a JSON API.
// The application uses gorm for data persistence and stores uploaded files
// on the local filesystem.
package main
