/*
Package provision changes who can access what: sharing events and managing teams.

Mutations never go through the evaluation path.
A Service checks what a caller may do with an access.Evaluator,
then writes to the record store directly.
*/
package provision
