package leangym_test

import (
	"context"
	"fmt"
	"log"

	leangym "github.com/PatrickMassot/lean-gym"
	"github.com/PatrickMassot/lean-gym/pkg/adapters/rewrite"
	"github.com/PatrickMassot/lean-gym/pkg/domain"
	"github.com/PatrickMassot/lean-gym/pkg/protocol"
)

// ExampleOpen walks the Nat.add_comm proof on the rewrite engine,
// including a failed attempt that leaves branch 1 usable.
func ExampleOpen() {
	ctx := context.Background()
	eng := rewrite.New("testdata/lean")

	sess, err := leangym.Open(ctx, eng, "Nat.add_comm")
	if err != nil {
		log.Fatal(err)
	}

	welcome, err := sess.Welcome(ctx)
	if err != nil {
		log.Fatal(err)
	}
	show(welcome)

	for _, line := range []string{"0 intros", "1 rfl", "1 rewrite [Nat.add_comm]", "2 rfl"} {
		resp, err := sess.DispatchLine(ctx, line)
		if err != nil {
			log.Fatal(err)
		}
		show(resp)
	}

	// Output:
	// {"branchId":0,"goals":["⊢ ∀ (n m : Nat), n + m = m + n"],"errors":[]}
	// {"branchId":1,"goals":["n✝ m✝ : Nat\n⊢ n✝ + m✝ = m✝ + n✝"],"errors":[]}
	// {"branchId":null,"goals":[],"errors":["tactic 'rfl' failed, main goal:\nn✝ m✝ : Nat\n⊢ n✝ + m✝ = m✝ + n✝"]}
	// {"branchId":2,"goals":["n✝ m✝ : Nat\n⊢ m✝ + n✝ = m✝ + n✝"],"errors":[]}
	// {"branchId":null,"goals":[],"errors":[]}
}

func show(resp domain.Response) {
	data, err := protocol.Marshal(resp)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(data))
}
