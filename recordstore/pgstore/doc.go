/*
Package pgstore keeps records in a PostgreSQL database.

Every table of the record store shares one database table, records,
with the fields of each record held in a jsonb column.
Formulas are translated into SQL so filtering happens in the database.

Connect opens the connection through GORM and runs all migrations.
When connecting to a test database, the public schema is dropped first.
*/
package pgstore
