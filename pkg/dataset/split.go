package dataset

// Cohort is the part of a Dataset assigned to one group.
type Cohort struct {
	Group   Group
	Records Dataset
}

// Size returns the number of records of the cohort.
func (c Cohort) Size() int {
	return c.Records.Len()
}

// Conversions returns the number of converted records of the cohort.
func (c Cohort) Conversions() int {
	return c.Records.Conversions()
}

// InGroup returns a predicate matching the records of group g.
func InGroup(g Group) func(Record) bool {
	return func(r Record) bool {
		return r.Group == g
	}
}

// Split partitions d into the treatment and control cohorts. Records of any other
// group belong to neither.
func Split(d Dataset) (treatment, control Cohort) {
	return Cohort{Group: Treatment, Records: d.Filter(InGroup(Treatment))},
		Cohort{Group: Control, Records: d.Filter(InGroup(Control))}
}
