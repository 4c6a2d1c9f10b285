// Package gate implements the de-identification consent gate shown before
// any reflection text can be captured.
//
// The gate is stateless across sessions: it is constructed fresh for every
// new reflection and confirmation is never remembered. It performs no I/O;
// Confirm and Cancel only produce a transition signal for the caller.
package gate

// Categories is the fixed, non-editable list of disallowed data the
// therapist attests will not appear in the reflection.
var Categories = []string{
	"Nomi o iniziali dei pazienti",
	"Date di nascita o date delle sessioni",
	"Informazioni di contatto o indirizzi",
	"Qualsiasi altra informazione identificabile",
}

// Attestation is the checkbox label text.
const Attestation = "Certifico che nessun nome, data o dato identificabile del paziente sarà inserito in questa riflessione."

// Decision is the gate's transition signal.
type Decision int

const (
	// Pending means neither action has resolved the gate yet.
	Pending Decision = iota
	// Confirmed transitions the caller into the wizard.
	Confirmed
	// Cancelled returns the caller to the prior view.
	Cancelled
)

// Gate holds the checkbox state and the resolved decision.
type Gate struct {
	acknowledged bool
	decision     Decision
}

// New returns an unacknowledged gate.
func New() *Gate {
	return &Gate{}
}

// Acknowledged reports whether the attestation checkbox is checked.
func (g *Gate) Acknowledged() bool { return g.acknowledged }

// Decision returns the gate's resolution.
func (g *Gate) Decision() Decision { return g.decision }

// Toggle flips the attestation checkbox. Ignored once resolved.
func (g *Gate) Toggle() {
	if g.decision != Pending {
		return
	}
	g.acknowledged = !g.acknowledged
}

// Confirm resolves the gate when the checkbox is checked. Without the
// acknowledgment it is a no-op returning false: the action is inert, not an
// error.
func (g *Gate) Confirm() bool {
	if g.decision != Pending || !g.acknowledged {
		return false
	}
	g.decision = Confirmed
	return true
}

// Cancel resolves the gate back to the prior view. Always legal while
// pending; nothing has been collected yet, so nothing is discarded.
func (g *Gate) Cancel() {
	if g.decision != Pending {
		return
	}
	g.decision = Cancelled
}
