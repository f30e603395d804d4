// Package analytics computes aggregates over cleaned sales records.
//
// Every function is pure: it reads the records it is given and never modifies
// them. Rankings are deterministic. Equal values are ordered by key, with
// missing categories after every present one.
package analytics
