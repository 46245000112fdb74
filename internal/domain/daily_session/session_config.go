package dailysession

// Config holds the sizing rules for a day of study.
type Config struct {
	DailyBaseCount     int   // size of the base set
	ExtraRandomOptions []int // offered sizes for a random extra round; the first is the default
	ExtraWrongMax      int   // cap for a wrong-only extra round
}

// DefaultConfig returns the stock daily limits.
func DefaultConfig() Config {
	return Config{
		DailyBaseCount:     50,
		ExtraRandomOptions: []int{10, 20, 30},
		ExtraWrongMax:      30,
	}
}

func (c Config) defaultRandomCount() int {
	if len(c.ExtraRandomOptions) > 0 && c.ExtraRandomOptions[0] > 0 {
		return c.ExtraRandomOptions[0]
	}
	return DefaultConfig().ExtraRandomOptions[0]
}
