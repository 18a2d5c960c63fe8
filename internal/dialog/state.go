// Package dialog tracks which multi-step input each user is in the middle of.
package dialog

// Step is the input the bot expects next from a user.
type Step int

const (
	StepNone Step = iota
	StepProductName
	StepProductPrice
	StepQuantity
	StepEditName
	StepEditPrice
)

var stepNames = [...]string{"none", "product_name", "product_price", "quantity", "edit_name", "edit_price"}

func (s Step) String() string {
	if int(s) < 0 || int(s) >= len(stepNames) {
		return "unknown"
	}
	return stepNames[s]
}

// Keys used in State.Data.
const (
	KeyName      = "name"
	KeyProductID = "product_id"
)

type State struct {
	Step Step
	Data map[string]string
}

// Idle reports whether no dialogue is in progress and nothing is pending.
func (s State) Idle() bool { return s.Step == StepNone && len(s.Data) == 0 }

func (s State) clone() State {
	if s.Data == nil {
		return State{Step: s.Step}
	}
	d := make(map[string]string, len(s.Data))
	for k, v := range s.Data {
		d[k] = v
	}
	return State{Step: s.Step, Data: d}
}

// With returns a copy of s moved to step with extra folded into Data.
func (s State) With(step Step, kv ...string) State {
	out := s.clone()
	out.Step = step
	if len(kv) > 0 && out.Data == nil {
		out.Data = make(map[string]string, len(kv)/2)
	}
	for i := 0; i+1 < len(kv); i += 2 {
		out.Data[kv[i]] = kv[i+1]
	}
	return out
}
