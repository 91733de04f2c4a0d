package artifacts

// The clique rule table. Each rule matches a clique shape by member count
// and the min/max induced degree, then schedules an edge-deletion set that
// collapses the cluster toward a single true branch point. First match wins;
// shapes with no match are skipped and revisited next pass. Cluster sizes
// of 3 through 10 cover everything observed in real skeletons.

type cliqueRule struct {
	name    string
	matches func(size, minDeg, maxDeg int) bool
	apply   func(cx *cliqueCtx)
}

func matchRule(size, minDeg, maxDeg int) *cliqueRule {
	for i := range cliqueRules {
		if cliqueRules[i].matches(size, minDeg, maxDeg) {
			return &cliqueRules[i]
		}
	}
	return nil
}

var cliqueRules = []cliqueRule{
	{
		// Three mutually connected branch points. The two lowest-weighted
		// lose their shared edge.
		name:    "triangle",
		matches: func(s, mn, _ int) bool { return s == 3 && mn > 1 },
		apply: func(cx *cliqueCtx) {
			order := sortByWeight(cx.g, cx.members)
			cx.deleteBetween(order[0], order[1])
		},
	},
	{
		// A triangle with one dangling member. The dangler anchors a real
		// branch; only the three interconnected members compete.
		name:    "tailed triangle",
		matches: func(s, mn, mx int) bool { return s == 4 && mn == 1 && mx == 3 },
		apply: func(cx *cliqueCtx) {
			cands := cx.membersWithDegree(func(d int) bool { return d > 1 })
			order := sortByWeight(cx.g, cands)
			cx.deleteBetween(order[0], order[1])
		},
	},
	{
		// Four members in a diamond: two degree-3 hubs bridged by two
		// degree-2 members. The lighter hub detaches from both bridges.
		name:    "diamond",
		matches: func(s, mn, mx int) bool { return s == 4 && mn == 2 && mx == 3 },
		apply: func(cx *cliqueCtx) {
			hubs := cx.membersWithDegree(func(d int) bool { return d == 3 })
			if len(hubs) != 2 {
				return
			}
			loser := sortByWeight(cx.g, hubs)[0]
			for _, v := range cx.members {
				if cx.degree(v) == 2 {
					cx.deleteBetween(loser, v)
				}
			}
		},
	},
	{
		// Fully connected four-clique. The heaviest member survives intact;
		// the other three lose their mutual edges.
		name:    "tetrahedron",
		matches: func(s, mn, _ int) bool { return s == 4 && mn == 3 },
		apply: func(cx *cliqueCtx) {
			order := sortByWeight(cx.g, cx.members)
			cx.deleteBetween(order[0], order[1])
			cx.deleteBetween(order[0], order[2])
			cx.deleteBetween(order[1], order[2])
		},
	},
	{
		// Six-member chain of fused triangles
		name:    "triangle chain",
		matches: func(s, mn, mx int) bool { return s == 6 && mn == 2 && mx == 3 },
		apply: func(cx *cliqueCtx) {
			for _, v := range cx.membersWithDegree(func(d int) bool { return d == 3 }) {
				resolveTriple(cx, v)
			}
		},
	},
	{
		// Five members around a degree-4 hub with all spokes doubled up.
		// Each degree-2 spoke pair forms a triple with one shared member;
		// blacklisting keeps a member from competing in two triples.
		name:    "pinwheel",
		matches: func(s, mn, mx int) bool { return s == 5 && mx == 4 && mn == 2 },
		apply: func(cx *cliqueCtx) {
			resolved := make(map[int32]bool, len(cx.members))
			for _, v := range cx.members {
				if resolved[v] || cx.degree(v) != 2 {
					continue
				}
				ns := cx.sub.Neighbors(v)
				if len(ns) != 2 {
					continue
				}
				resolved[ns[0]] = true
				resolved[ns[1]] = true
				order := sortByWeight(cx.g, []int32{v, ns[0], ns[1]})
				cx.deleteBetween(order[0], order[1])
			}
		},
	},
	{
		// Degree-4 hub with asymmetric spokes: the hub is the real branch
		// point, every edge not touching it goes.
		name:    "star",
		matches: func(s, _, mx int) bool { return s == 5 && mx == 4 },
		apply: func(cx *cliqueCtx) {
			spokes := cx.membersWithDegree(func(d int) bool { return d != 4 })
			for i, a := range spokes {
				for _, b := range spokes[i+1:] {
					cx.deleteBetween(a, b)
				}
			}
		},
	},
	{
		// Degree-4 hub cluster with dangling members: degree-3 members keep
		// only their hub connection.
		name:    "tailed star",
		matches: func(s, mn, mx int) bool { return s >= 5 && s <= 10 && mx == 4 && mn == 1 },
		apply: func(cx *cliqueCtx) {
			for _, v := range cx.membersWithDegree(func(d int) bool { return d == 3 }) {
				for _, n := range cx.sub.Neighbors(v) {
					if cx.degree(n) != 4 {
						cx.deleteBetween(v, n)
					}
				}
			}
		},
	},
	{
		// Mid-size chains with dangling ends: each degree-3 member heads a
		// local triple.
		name:    "tailed chain",
		matches: func(s, mn, _ int) bool { return s > 6 && s < 10 && mn == 1 },
		apply: func(cx *cliqueCtx) {
			for _, v := range cx.membersWithDegree(func(d int) bool { return d == 3 }) {
				resolveTriple(cx, v)
			}
		},
	},
	{
		// Large closed chains
		name:    "large ring",
		matches: func(s, mn, _ int) bool { return s > 8 && s <= 10 && mn == 2 },
		apply: func(cx *cliqueCtx) {
			for _, v := range cx.membersWithDegree(func(d int) bool { return d == 3 }) {
				resolveTriple(cx, v)
			}
		},
	},
	{
		// Two fused pinwheels: edges between degree-2 members bridge the
		// two hubs spuriously.
		name:    "double pinwheel",
		matches: func(s, mn, mx int) bool { return s == 8 && mx == 4 && mn == 2 },
		apply:   deleteLowDegreePairs,
	},
	{
		// Seven-member closed chain
		name:    "seven ring",
		matches: func(s, mn, _ int) bool { return s == 7 && mn == 2 },
		apply:   deleteLowDegreePairs,
	},
	{
		// Degree-5 hub with six members: degree-3 members detach from their
		// degree-2 neighbors.
		name:    "dandelion",
		matches: func(s, _, mx int) bool { return s == 6 && mx == 5 },
		apply: func(cx *cliqueCtx) {
			for _, v := range cx.membersWithDegree(func(d int) bool { return d == 3 }) {
				for _, n := range cx.sub.Neighbors(v) {
					if cx.degree(n) == 2 {
						cx.deleteBetween(v, n)
					}
				}
			}
		},
	},
}

// resolveTriple handles a local fused triangle around v: when v has exactly
// two degree-2 neighbors, the three compete by weight and the two lowest
// lose their shared edge if one exists.
func resolveTriple(cx *cliqueCtx, v int32) {
	low := make([]int32, 0, 2)
	for _, n := range cx.sub.Neighbors(v) {
		if cx.degree(n) == 2 {
			low = append(low, n)
		}
	}
	if len(low) != 2 {
		return
	}
	order := sortByWeight(cx.g, []int32{v, low[0], low[1]})
	cx.deleteBetween(order[0], order[1])
}

// deleteLowDegreePairs removes every edge joining two degree-2 members
func deleteLowDegreePairs(cx *cliqueCtx) {
	low := cx.membersWithDegree(func(d int) bool { return d == 2 })
	for i, a := range low {
		for _, b := range low[i+1:] {
			cx.deleteBetween(a, b)
		}
	}
}
