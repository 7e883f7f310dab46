package ahocorasick

// buildFailureLinks performs the Aho-Corasick goto/failure pre-pass: BFS
// from the root, visiting children in sorted byte order so the resulting
// automaton is deterministic given the key set (this determinism is what
// the longest-tie test relies on).
func buildFailureLinks(a *nodeArena) {
	queue := make([]int32, 0, a.len())

	root := &a.nodes[0]
	for _, e := range root.children {
		a.nodes[e.child].failure = 0
		queue = append(queue, e.child)
	}

	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]

		for _, e := range a.nodes[r].children {
			child := e.child
			queue = append(queue, child)

			// Walk r's failure chain until a node with a real (or
			// root-augmented) transition on byte e.b is found.
			state := a.nodes[r].failure
			target := augmentedChildAt(a, state, e.b)
			for target < 0 {
				state = a.nodes[state].failure
				target = augmentedChildAt(a, state, e.b)
			}
			a.nodes[child].failure = target
		}
	}
}

// augmentedChildAt is the root-augmented child lookup used only during
// failure-link construction: the
// root returns 0 (itself) for any byte with no real child, guaranteeing
// the failure chain terminates in at most one step.
func augmentedChildAt(a *nodeArena, i int32, b byte) int32 {
	c := a.childAt(i, b)
	if c < 0 && i == 0 {
		return 0
	}
	return c
}
