package network

import (
	"sort"

	"github.com/jalad-shrimali/cdr-analyzer/cdr"
)

// CommonContacts returns the counterparty numbers that appear in at least
// two distinct accounts' record sets. Fewer than two input files yields an
// empty result, not an error. Output is sorted for determinism.
func CommonContacts(results []cdr.Result) []string {
	if len(results) < 2 {
		return nil
	}

	seenBy := map[string]map[string]struct{}{}
	for _, res := range results {
		for _, r := range res.Records {
			if r.CounterpartyNumber == "" {
				continue
			}
			accounts, ok := seenBy[r.CounterpartyNumber]
			if !ok {
				accounts = map[string]struct{}{}
				seenBy[r.CounterpartyNumber] = accounts
			}
			accounts[res.Account] = struct{}{}
		}
	}

	var out []string
	for number, accounts := range seenBy {
		if len(accounts) >= 2 {
			out = append(out, number)
		}
	}
	sort.Strings(out)
	return out
}
