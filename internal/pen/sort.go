package pen

// lessSuffix implements the suffix-at-position comparator from spec.md §3:
// lexicographic comparison of corpus[a..] and corpus[b..] under p.cmp, with
// tie-breaks:
//   - the empty suffix (position len(corpus)) sorts before any non-empty one;
//   - any token equal to the sentinel sorts before any non-sentinel token,
//     including before a null token when null != sentinel under p.cmp;
//   - a proper prefix relationship resolves to the shorter suffix sorting
//     first.
func (p *Pen) lessSuffix(a, b int) bool {
	return p.compareSuffix(a, b) < 0
}

// compareSuffix returns <0, 0, >0 exactly like token.Comparer.Compare, but
// over whole suffixes starting at a and b.
func (p *Pen) compareSuffix(a, b int) int {
	c := len(p.corpus)
	for {
		aEnd := a >= c
		bEnd := b >= c
		switch {
		case aEnd && bEnd:
			return 0
		case aEnd:
			return -1
		case bEnd:
			return 1
		}

		ta, tb := p.corpus[a], p.corpus[b]
		aSent, bSent := p.isSentinel(ta), p.isSentinel(tb)
		switch {
		case aSent && bSent:
			// Both sentinel at this depth: keep comparing past them —
			// sentinel-vs-sentinel ties are broken by what follows, same
			// as any other equal token pair.
		case aSent:
			return -1
		case bSent:
			return 1
		default:
			if c := p.cmp.Compare(ta, tb); c != 0 {
				return c
			}
		}
		a++
		b++
	}
}
