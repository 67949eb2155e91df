// Package report renders human-readable views of a factory: its structure,
// and its state at the end of a turn.
package report

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/netsim-dev/netsim/sim"
)

// WriteStructure writes every node with its parameters and receivers.
func WriteStructure(w io.Writer, f *sim.Factory) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "== LOADING RAMPS ==")
	fmt.Fprintln(bw)
	for _, r := range f.Ramps() {
		fmt.Fprintf(bw, "LOADING RAMP #%d\n", r.ID())
		fmt.Fprintf(bw, "  Delivery interval: %d\n", r.DeliveryInterval())
		writeReceivers(bw, r.Preferences())
		fmt.Fprintln(bw)
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "== WORKERS ==")
	fmt.Fprintln(bw)
	for _, wk := range f.Workers() {
		fmt.Fprintf(bw, "WORKER #%d\n", wk.ID())
		fmt.Fprintf(bw, "  Processing time: %d\n", wk.ProcessingDuration())
		fmt.Fprintf(bw, "  Queue type: %s\n", wk.Queue().Type())
		writeReceivers(bw, wk.Preferences())
		fmt.Fprintln(bw)
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "== STOREHOUSES ==")
	fmt.Fprintln(bw)
	for _, s := range f.Storehouses() {
		fmt.Fprintf(bw, "STOREHOUSE #%d\n", s.ID())
		fmt.Fprintln(bw)
	}

	return bw.Flush()
}

// writeReceivers lists receivers storehouses first, then workers, by id.
func writeReceivers(w io.Writer, prefs *sim.ReceiverPreferences) {
	fmt.Fprintln(w, "  Receivers:")
	entries := prefs.Entries()
	slices.SortFunc(entries, func(a, b sim.Preference) int {
		return cmp.Or(
			cmp.Compare(receiverOrder(a.Receiver.Kind), receiverOrder(b.Receiver.Kind)),
			cmp.Compare(a.Receiver.ID, b.Receiver.ID),
		)
	})
	for _, e := range entries {
		fmt.Fprintf(w, "    %s #%d (p = %.2f)\n", kindLabel(e.Receiver.Kind), e.Receiver.ID, e.Probability)
	}
}

func receiverOrder(k sim.NodeKind) int {
	if k == sim.KindStorehouse {
		return 0
	}
	return 1
}

func kindLabel(k sim.NodeKind) string {
	if k == sim.KindStorehouse {
		return "storehouse"
	}
	return k.String()
}

// WriteTurn writes the state of every worker and storehouse after turn t.
func WriteTurn(w io.Writer, f *sim.Factory, t sim.Time) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "=== [ Turn: %d ] ===\n", t)
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "== WORKERS ==")
	fmt.Fprintln(bw)
	for _, wk := range f.Workers() {
		fmt.Fprintf(bw, "WORKER #%d\n", wk.ID())
		if p, ok := wk.ProcessingBuffer(); ok {
			fmt.Fprintf(bw, "  PBuffer: %s (pt = %d)\n", p, t-wk.ProcessingStartTime()+1)
		} else {
			fmt.Fprintln(bw, "  PBuffer: (empty)")
		}
		fmt.Fprintf(bw, "  Queue: %s\n", packageList(wk.Items()))
		if p, ok := wk.SendingBuffer(); ok {
			fmt.Fprintf(bw, "  SBuffer: %s\n", p)
		} else {
			fmt.Fprintln(bw, "  SBuffer: (empty)")
		}
		fmt.Fprintln(bw)
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "== STOREHOUSES ==")
	fmt.Fprintln(bw)
	for _, s := range f.Storehouses() {
		fmt.Fprintf(bw, "STOREHOUSE #%d\n", s.ID())
		fmt.Fprintf(bw, "  Stock: %s\n", packageList(s.Items()))
		fmt.Fprintln(bw)
	}

	return bw.Flush()
}

func packageList(ps []sim.Package) string {
	if len(ps) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}
