package interval

// Merge collapses each maximal run of positive coverage into one record.
// Intervals closer than slack are merged; a run ends at the largest end of
// its intervals, without the slack.  Idx is the row whose end closed the
// run, and Counts the number of intervals in it.
func Merge[G Group, P Pos](s Set[G, P], slack P) (Runs[P], error) {
	if err := s.validate("Merge"); err != nil {
		return Runs[P]{}, err
	}
	if err := checkSlack("Merge", slack); err != nil {
		return Runs[P]{}, err
	}
	var out Runs[P]
	if s.Len() == 0 {
		return out, nil
	}
	events := buildEvents(s, slack)
	curGroup := events[0].group
	var runStart, runEnd P
	active := 0
	var members uint32
	for _, e := range events {
		if e.group != curGroup {
			active = 0
			curGroup = e.group
		}
		if active == 0 {
			runStart = e.pos
			runEnd = minPos[P]()
			members = 0
		}
		if e.isStart {
			active++
			members++
			continue
		}
		// The event position may be clamped, so take the end from the row.
		if end := s.Ends[e.idx]; end > runEnd {
			runEnd = end
		}
		active--
		if active == 0 {
			out.Idx = append(out.Idx, e.idx)
			out.Starts = append(out.Starts, runStart)
			out.Ends = append(out.Ends, runEnd)
			out.Counts = append(out.Counts, members)
		}
	}
	return out, nil
}

// Cluster assigns a cluster ID to every row, in sweep order.  The ID advances
// each time coverage returns to zero and at every group change, so
// overlapping (or, with slack, nearby) intervals share an ID.  IDs are
// increasing but not necessarily contiguous.
func Cluster[G Group, P Pos](s Set[G, P], slack P) (Clusters, error) {
	if err := s.validate("Cluster"); err != nil {
		return Clusters{}, err
	}
	if err := checkSlack("Cluster", slack); err != nil {
		return Clusters{}, err
	}
	var out Clusters
	if s.Len() == 0 {
		return out, nil
	}
	out.IDs = make([]uint32, 0, s.Len())
	out.Idx = make([]uint32, 0, s.Len())
	events := buildEvents(s, slack)
	curGroup := events[0].group
	var id uint32
	active := 0
	for _, e := range events {
		if e.group != curGroup {
			id++
			active = 0
			curGroup = e.group
		}
		if e.isStart {
			out.IDs = append(out.IDs, id)
			out.Idx = append(out.Idx, e.idx)
			active++
			continue
		}
		active--
		if active == 0 {
			id++
		}
	}
	return out, nil
}

// Boundary reports, per group, the span from its first to its last event,
// ignoring any coverage gaps inside the group.  Idx is the row of the group's
// last event and Counts its number of events (two per row).
func Boundary[G Group, P Pos](s Set[G, P]) (Runs[P], error) {
	if err := s.validate("Boundary"); err != nil {
		return Runs[P]{}, err
	}
	var out Runs[P]
	if s.Len() == 0 {
		return out, nil
	}
	events := buildEvents(s, 0)
	flush := func(last event[G, P], start P, count uint32) {
		out.Idx = append(out.Idx, last.idx)
		out.Starts = append(out.Starts, start)
		out.Ends = append(out.Ends, last.pos)
		out.Counts = append(out.Counts, count)
	}
	runStart := events[0].pos
	var count uint32
	for i, e := range events {
		if i > 0 && e.group != events[i-1].group {
			flush(events[i-1], runStart, count)
			runStart = e.pos
			count = 0
		}
		count++
	}
	flush(events[len(events)-1], runStart, count)
	return out, nil
}
