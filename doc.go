/*
Package leangym is a branching proof session manager for reinforcement-learning style
interaction with a proof engine.

A session loads one task, binds its initial proof state to branch 0 and then answers
requests of the form "<branchId> <command>". Every successful command creates a new
branch; failures leave the session untouched. Branches are never deleted, so any of
them can be explored again at any time.

# Concept

The engine that understands proof states is a collaborator behind the ports.Engine
interface. The session only stores its opaque snapshots, hands them back, and turns
the outcome of each command into one JSON response:

	{"branchId": 1, "goals": ["n m : Nat\n⊢ n + m = m + n"], "errors": []}

A null branchId with no errors means the proof is complete.

# Usage

	eng := rewrite.New(os.Getenv("LEAN_PATH"))

	sess, err := leangym.Open(ctx, eng, "Nat.add_comm")
	if err != nil {
		log.Fatal(err)
	}

	welcome, _ := sess.Welcome(ctx)
	resp, err := sess.DispatchLine(ctx, "0 intros")

The lean-gym command wraps a Session in the stdin/stdout loop of package runner.
*/
package leangym
