// Package models defines the core domain models for Tally.
//
// # Model Overview
//
//   - Expense: a shared cost paid by one member and split among participants
//   - ExpenseSplit: one participant's owed share of an expense
//   - Settlement: a direct payment between two members that clears debt
//   - Membership: the (user, group) join with a lifecycle status
//   - Group: a set of people who share expenses
//   - User: a registered account
//
// # Design Principles
//
//  1. **Exact money**: monetary amounts are normalized decimal strings, never
//     floats. All arithmetic on them lives in the money package.
//  2. **Immutable history**: expenses and settlements are never updated in
//     place. An edit writes a new version and marks the old row superseded;
//     a delete sets DeletedAt. Aggregation only sees live, current rows.
//  3. **Avoid circular references**: relationships use ID strings, not
//     pointers.
//
// Derived values (net balances, simplified debts, lock status) are not
// models; they are recomputed on every read and never persisted.
package models
