// Package core provides the business logic of the blood bank ledger.
//
// This package holds all domain rules independent of any transport or
// storage technology. HTTP handlers, background jobs and tests drive it
// through [Service]; persistence is reached only through the [Store]
// interface, implemented by the postgres, mongo and memory drivers.
//
// # Ledger
//
// Every blood movement is an immutable [InventoryRecord] with a direction
// ("in" received from a donor, "out" dispensed to a hospital), a blood
// group and a quantity in millilitres. Records are appended by
// [Service.RecordTransaction]; nothing updates or deletes them.
//
// Which account a record is attributed to is decided by an explicit
// table keyed by (policy, actor role, direction); see attribution.go.
//
// # Availability
//
// Stock is never stored. The available quantity of a blood group is
// derived as the sum of "in" quantities minus the sum of "out" quantities,
// either within one organisation or across the whole ledger:
//
//	avail, err := svc.Available(ctx, core.ForOrganisation(orgID), core.GroupOPos)
//
// Withdrawals pass a [StockCheck] to [Store.AppendRecord]; drivers verify
// availability and insert the record as one serialised step per
// (organisation, blood group), so concurrent withdrawals cannot jointly
// overdraw.
//
// # Errors
//
// Failures are reported with the sentinel errors in errors.go
// ([ErrNotFound], [ErrUnauthorized], [ErrValidation], [ErrConflict]),
// [*InsufficientStockError] and [*StorageError]. [MapError] turns any of
// them into a user-facing message with a support code.
package core
