package scoring

import (
	"encoding/json"
	"fmt"
)

// TeamID identifies one of the two teams. NoTeam is serialized as null.
type TeamID int

// team constants
const (
	NoTeam TeamID = 0
	Team1  TeamID = 1
	Team2  TeamID = 2
)

// Valid returns true for Team1 and Team2
func (t TeamID) Valid() bool {
	return t == Team1 || t == Team2
}

// Other returns the opposing team
func (t TeamID) Other() TeamID {
	switch t {
	case Team1:
		return Team2
	case Team2:
		return Team1
	}

	return NoTeam
}

// MarshalJSON encodes NoTeam as null
func (t TeamID) MarshalJSON() ([]byte, error) {
	if t == NoTeam {
		return []byte("null"), nil
	}

	return json.Marshal(int(t))
}

// UnmarshalJSON accepts null, 1 or 2
func (t *TeamID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = NoTeam
		return nil
	}

	var i int
	if err := json.Unmarshal(b, &i); err != nil {
		return err
	}

	if i != 0 && !TeamID(i).Valid() {
		return fmt.Errorf("invalid team: %d", i)
	}

	*t = TeamID(i)
	return nil
}

// TeamScores holds a score per team
type TeamScores struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}

// Get returns the score of the team
func (s TeamScores) Get(team TeamID) int {
	switch team {
	case Team1:
		return s.Team1
	case Team2:
		return s.Team2
	}

	return 0
}

// Add returns the sum of both scores
func (s TeamScores) Add(o TeamScores) TeamScores {
	return TeamScores{
		Team1: s.Team1 + o.Team1,
		Team2: s.Team2 + o.Team2,
	}
}

func (s *TeamScores) set(team TeamID, score int) {
	switch team {
	case Team1:
		s.Team1 = score
	case Team2:
		s.Team2 = score
	}
}
