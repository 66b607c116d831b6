package analysis

const (
	healthyMessage   = "The contract appears to be comprehensive. No immediate red flags detected."
	unhealthyMessage = "The contract may lack important clauses. Review is recommended."
)

// Verdict is the user-facing outcome of the evaluate step.
type Verdict struct {
	Health  Health `json:"contract_health"`
	Message string `json:"message"`
}

// Evaluate turns an analysis result into a verdict. Health is always
// recomputed from the word count.
func Evaluate(r Result) Verdict {
	h := HealthFor(r.WordCount)
	msg := unhealthyMessage
	if h == Healthy {
		msg = healthyMessage
	}
	return Verdict{Health: h, Message: msg}
}
