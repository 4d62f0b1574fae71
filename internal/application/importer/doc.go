// Package importer turns semi-structured product payloads into persisted
// catalog entities. Every entity kind has its own import instance sharing one
// three stage lifecycle (pre-process, process, post-process) and one generic
// get-or-create-then-diff-update operation, so a payload can be replayed any
// number of times without creating duplicate rows.
//
// Optional payload fields are three-state (absent, null, value); absent
// fields never touch the target entity while explicit nulls clear it. See
// shared.Optional.
package importer
