// Package repository provides one repository per entity, each exposing
// typed query methods over database/sql.  Relationships are explicit
// foreign-key columns plus join methods here; nothing is wired through a
// runtime association registry.  The sentinel errors below are shared
// across repositories so handlers can map failures to HTTP statuses
// without inspecting driver errors.
package repository

import "errors"

// ErrConflict is returned when a mutation cannot proceed because of
// dependent state, such as deleting a client that still has active cases
// or inserting a duplicate unique key.  Handlers translate this into a
// 400/409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when creating a user with an email address
// that is already registered.
var ErrEmailExists = errors.New("email already exists")

// ErrActiveCases is returned by the client deletion guard when the client
// has at least one case in Open or In Progress.  The check and the delete
// run in one transaction so no case can slip into an active state between
// them.
var ErrActiveCases = errors.New("cannot delete client with active cases")
