package syntax

// TagSet tells the feature extractor which grammar tags count as functions, loops and
// try blocks for one language.
type TagSet struct {
	Function map[string]bool
	Loop     map[string]bool
	Try      map[string]bool
}

// Counts tallies the nodes of root that fall in each set.
func (ts TagSet) Counts(root *Node) (functions, loops, tries int) {
	for n := range root.Walk() {
		switch {
		case ts.Function[n.Tag]:
			functions++
		case ts.Loop[n.Tag]:
			loops++
		case ts.Try[n.Tag]:
			tries++
		}
	}
	return functions, loops, tries
}
