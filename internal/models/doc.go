// Package models defines the core domain models for the shared-expense ledger.
//
// # Recorded Models
//
// These are persisted by the storage layer:
//   - Transaction: an EXPENSE, INCOME or SETTLEMENT event with its split rule
//   - SplitEntry: one participant row of a transaction's split
//   - Group: a set of members sharing expenses in one currency
//   - User: a registered account with spending preferences
//
// # Derived Models
//
// These are recomputed on every request and never stored:
//   - MemberSummary: one member's paid/owed/net position inside a group
//   - Settlement: a suggested payment from a debtor to a creditor
//   - BalanceSummary and MonthlySpend: a single user's personal view
//
// # Design Principles
//
// 1. **Normalized references**: payer, recipient and participants are plain user ID strings
// 2. **Immutable transactions**: a transaction is created or deleted, never edited
// 3. **Recompute, don't cache**: derived values are always folded from the live transaction set
// 4. **Explicit adjustments**: settlement split corrections use SplitEntry.Adjustment, not negative amounts
package models
