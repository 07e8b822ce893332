// Package predicate builds parameterized WHERE clauses from a parsed query.
//
// Every clause starts with the tenant isolation predicates (user_id and
// company_name) for each tenant-scoped table, followed by the requested
// conditions in order. Parameters are returned in placeholder order.
//
// The builder runs in one of two modes. With schema metadata it filters
// every table that carries both tenant columns and qualifies join columns
// by their owning table. Without it only the first table is filtered and
// no column qualification is attempted.
package predicate
