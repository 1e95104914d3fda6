package indicator

// Scan folds step over inputs from left to right. The state returned by one
// step is handed to the next; the per-step outputs and the final state are
// both returned.
func Scan[S, In, Out any](inputs []In, initial S, step func(state S, in In) (S, Out)) ([]Out, S) {
	outputs := make([]Out, len(inputs))
	state := initial

	for i, in := range inputs {
		state, outputs[i] = step(state, in)
	}

	return outputs, state
}
