package sig

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Print renders a human-readable dump of e for the sig CLI's "print"
// subcommand (spec.md §4.7): holder/authority references down the chain,
// the signing date, and the signature bytes. Byte strings are rendered with
// go-ethereum's hexutil, the pack's own canonical "0x..."-prefixed hex
// encoder, rather than a hand-rolled hex.EncodeToString call.
func (e *Envelope) Print() string {
	var b strings.Builder
	fmt.Fprintf(&b, "signed: %s\n", e.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "chain (%d certs):\n", len(e.Chain))
	for i, c := range e.Chain {
		fmt.Fprintf(&b, "  [%d] holder=%s authority=%s valid=%s..%s pubkey=%s\n",
			i, c.Body.HolderRef, c.Body.AuthorityRef,
			c.Body.ValidFrom.Format("2006-01-02"), c.Body.ValidUntil.Format("2006-01-02"),
			hexutil.Encode(c.Body.PubKey))
	}
	fmt.Fprintf(&b, "signature: %s\n", hexutil.Encode(e.Sig))
	return b.String()
}
