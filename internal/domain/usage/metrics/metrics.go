package metrics

// Metrics holds generation counters for a time period.
type Metrics struct {
	localGenerations  int64
	assistGenerations int64
	assistTokens      int64
	failures          int64
}

// New creates a Metrics snapshot.
func New(local, assist, assistTokens, failures int64) Metrics {
	return Metrics{
		localGenerations:  local,
		assistGenerations: assist,
		assistTokens:      assistTokens,
		failures:          failures,
	}
}

// LocalGenerations returns the number of deterministic engine generations.
func (m Metrics) LocalGenerations() int64 { return m.localGenerations }

// AssistGenerations returns the number of successful assist generations.
func (m Metrics) AssistGenerations() int64 { return m.assistGenerations }

// AssistTokens returns the provider tokens consumed by assist.
func (m Metrics) AssistTokens() int64 { return m.assistTokens }

// Failures returns the number of failed generations.
func (m Metrics) Failures() int64 { return m.failures }

// Total returns all successful generations.
func (m Metrics) Total() int64 { return m.localGenerations + m.assistGenerations }
