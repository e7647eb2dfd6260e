package conceptual

// SubjectID names the one moving thing a trajectory belongs to:
// a person, a device, a cat.
type SubjectID string

func (s SubjectID) String() string {
	return string(s)
}

func (s SubjectID) Empty() bool {
	return s == ""
}
