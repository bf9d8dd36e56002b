package sport

import "fmt"

// Position is a bookable role within a sport (goalkeeper, forward, ...).
type Position struct {
	Code         string
	Name         string
	DefaultQuota int
}

// Sport is administrator-managed reference data. The booking path only reads it.
type Sport struct {
	Code      string
	Name      string
	Positions []Position
}

func (s Sport) Validate() error {
	if s.Code == "" {
		return fmt.Errorf("sport code is required")
	}
	if s.Name == "" {
		return fmt.Errorf("sport name is required")
	}
	if len(s.Positions) == 0 {
		return fmt.Errorf("sport must define at least one position")
	}

	seen := make(map[string]struct{}, len(s.Positions))
	for _, p := range s.Positions {
		if p.Code == "" {
			return fmt.Errorf("position code is required")
		}
		if p.Name == "" {
			return fmt.Errorf("position %s name is required", p.Code)
		}
		if p.DefaultQuota < 0 {
			return fmt.Errorf("position %s default quota cannot be negative", p.Code)
		}
		if _, dup := seen[p.Code]; dup {
			return fmt.Errorf("duplicate position code %s", p.Code)
		}
		seen[p.Code] = struct{}{}
	}

	return nil
}

// HasPosition reports whether code is one of the sport's position codes.
func (s Sport) HasPosition(code string) bool {
	for _, p := range s.Positions {
		if p.Code == code {
			return true
		}
	}
	return false
}

// SinglePosition returns the sport's only position when exactly one is
// defined. Sports like this publish matches without explicit quotas.
func (s Sport) SinglePosition() (Position, bool) {
	if len(s.Positions) != 1 {
		return Position{}, false
	}
	return s.Positions[0], true
}
