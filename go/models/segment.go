package models

// Segment is a half-open physical address range [Start, End).
type Segment struct {
	Start, End uint64
}

func (s *Segment) Len() uint64 {
	return s.End - s.Start
}

func (s *Segment) Contains(addr uint64) bool {
	return s.Start <= addr && addr < s.End
}

func (s *Segment) Overlaps(o *Segment) bool {
	return (s.Start >= o.Start && s.Start < o.End) || (o.Start >= s.Start && o.Start < s.End)
}

func (s *Segment) Merge(o *Segment) {
	if s.Start > o.Start {
		s.Start = o.Start
	}
	if s.End < o.End {
		s.End = o.End
	}
}
