package puzzle

// RunResult summarizes a headless run.
type RunResult struct {
	Steps     int  // Steps that changed zone contents
	Quiescent bool // True if the run stopped because nothing changed
	Cycled    bool // True if a configuration repeated
	Status    Status
	Message   string
}

// RunUntilQuiescent steps the state until it is terminal, quiescent or repeats
// a configuration, or until maxSteps steps have been taken.
func (s *State) RunUntilQuiescent(maxSteps int) RunResult {
	seen := map[uint64]bool{s.Hash(): true}
	result := RunResult{}

	for result.Steps < maxSteps {
		step := s.Step()
		if step.Status.IsTerminal() {
			break
		}
		if !step.Changed {
			result.Quiescent = true
			break
		}
		result.Steps++

		h := s.Hash()
		if seen[h] {
			result.Cycled = true
			break
		}
		seen[h] = true
	}

	result.Status = s.Status
	result.Message = s.Message
	return result
}

// Play removes the given pins in order, running the state to rest after each
// removal. It stops early once the state is terminal. Unknown pins are ignored.
func (s *State) Play(pins []string, maxSteps int) RunResult {
	result := s.RunUntilQuiescent(maxSteps)
	for _, id := range pins {
		if s.Status.IsTerminal() {
			break
		}
		s.RemovePin(id)
		r := s.RunUntilQuiescent(maxSteps)
		r.Steps += result.Steps
		result = r
	}
	result.Status = s.Status
	result.Message = s.Message
	return result
}
