// Package sync pushes local catalog state onto external sales channels.
//
// Every outbound operation goes through a factory: CreateFactory,
// UpdateFactory and DeleteFactory handle the remote round trip for one
// product mirror, and ProductSyncFactory orchestrates the full per-product
// pipeline (payload build, property/image/variation reconciliation) on top
// of them. Child collections converge through the three-way reconciliation
// in Reconciler: every sync run drives the remote mirror set to exactly the
// current local set, without a persisted prior-snapshot diff.
//
// A failed remote create keeps its mirror row; the next update detects the
// unfinished create and re-runs it first, so repeated retries always
// converge without manual repair.
package sync
