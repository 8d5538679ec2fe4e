package booking

type State int

const (
	StateClosed State = iota
	StateLoadingBarbers
	StateReady
	StateCheckingAvailability
	StateSubmitting
	StateSucceeded
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateLoadingBarbers:
		return "loading_barbers"
	case StateReady:
		return "ready"
	case StateCheckingAvailability:
		return "checking_availability"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	}
	return "unknown"
}

// Open diz se o fluxo está visível (qualquer estado fora Closed).
func (s State) Open() bool {
	return s != StateClosed
}
