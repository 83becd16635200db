package interval

// Split cuts the covered regions of each group at every interval endpoint,
// so that the resulting fragments never partially overlap.  With between
// set, the uncovered stretches between intervals of the same group are
// reported too.  Idx is the row of the event that opened the fragment.  Ends
// are widened by slack before cutting.
func Split[G Group, P Pos](s Set[G, P], slack P, between bool) (Fragments[P], error) {
	if err := s.validate("Split"); err != nil {
		return Fragments[P]{}, err
	}
	if err := checkSlack("Split", slack); err != nil {
		return Fragments[P]{}, err
	}
	var out Fragments[P]
	if s.Len() == 0 {
		return out, nil
	}
	events := buildEvents(s, slack)
	e0 := events[0]
	curGroup, lastPos, lastIdx := e0.group, e0.pos, e0.idx
	active := 0
	if e0.isStart {
		active = 1
	}
	for _, e := range events[1:] {
		if e.group != curGroup {
			curGroup, lastPos, lastIdx = e.group, e.pos, e.idx
			active = 0
			if e.isStart {
				active = 1
			}
			continue
		}
		if e.pos > lastPos {
			if active > 0 || between {
				out.add(lastIdx, lastPos, e.pos)
			}
			lastPos, lastIdx = e.pos, e.idx
		}
		if e.isStart {
			active++
		} else if active > 0 {
			active--
		}
	}
	return out, nil
}
