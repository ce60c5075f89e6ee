package record

import "fmt"

type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusVerified, StatusRejected:
		return nil
	default:
		return fmt.Errorf("invalid record status: %q", s)
	}
}

func (s Status) String() string {
	return string(s)
}

// Terminal reports whether no further transition is possible from s.
func (s Status) Terminal() bool {
	return s == StatusVerified || s == StatusRejected
}

func (s Status) DisplayName() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusVerified:
		return "Verified"
	case StatusRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// ParseStatus accepts the lowercase wire names.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if err := st.Validate(); err != nil {
		return "", err
	}
	return st, nil
}
