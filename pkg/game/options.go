package game

// Options are the table rules of a game
type Options struct {
	WinningScore int `json:"winningScore"`
	MinBet       int `json:"minBet"`
	MaxBet       int `json:"maxBet"`
}

// DefaultOptions returns the standard rules
func DefaultOptions() Options {
	return Options{
		WinningScore: 41,
		MinBet:       7,
		MaxBet:       12,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.WinningScore <= 0 {
		o.WinningScore = d.WinningScore
	}

	if o.MinBet <= 0 {
		o.MinBet = d.MinBet
	}

	if o.MaxBet < o.MinBet {
		o.MaxBet = d.MaxBet
		if o.MaxBet < o.MinBet {
			o.MaxBet = o.MinBet
		}
	}

	return o
}
