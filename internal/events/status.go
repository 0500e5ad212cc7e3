package events

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusCanceled  Status = "CANCELED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusCanceled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsBookable reports whether transactions may be created against the event.
func (s Status) IsBookable() bool {
	return s == StatusPublished
}

// IsEditable reports whether event fields may still be changed.
func (s Status) IsEditable() bool {
	return s == StatusDraft
}
