/*
Package protocol implements the line protocol spoken on stdin/stdout.

Input lines have the form "<branchId> <command text>". Each response is a single
JSON object:

	{"branchId":1,"goals":["n✝ m✝ : Nat\n⊢ n✝ + m✝ = m✝ + n✝"],"errors":[]}

A null branchId with an empty errors list means every goal was closed.
*/
package protocol
