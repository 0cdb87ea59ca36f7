/*
Package recordstore reaches the tabular record store synkro keeps its accounts, grants and events in.

A record store is a set of named tables.
Each table holds records with a unique ID and a map of fields.
Records are found with a [Formula], a small predicate language
supporting exact matches, substring matches, record IDs and boolean AND/OR composition.

Three implementations of [Store] are available:
  - [Client] talks to an Airtable-compatible REST API
  - [Memory] keeps records in memory, for development and tests
  - pgstore.Store keeps records in PostgreSQL

Every Formula renders to the Airtable formula language with String
and can be evaluated against a [Record] with Matches,
which is what [Memory] uses.
*/
package recordstore
