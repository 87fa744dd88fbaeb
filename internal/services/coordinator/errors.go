package coordinator

// CoordinatorError is a custom error type for coordinator-related errors
type CoordinatorError string

// Error implements the error interface
func (e CoordinatorError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrParticipantNotFound CoordinatorError = "participant not found"
	ErrUnexpectedStatus    CoordinatorError = "participant is not in the expected status"
	ErrInvalidRestaurant   CoordinatorError = "restaurant index out of range"
	ErrUnknownScenario     CoordinatorError = "scenario not found"
	ErrNilConfig           CoordinatorError = "config cannot be nil"
	ErrNilParticipantRepo  CoordinatorError = "participant repository cannot be nil"
	ErrNilScenarioStore    CoordinatorError = "scenario store cannot be nil"
	ErrNilClock            CoordinatorError = "clock cannot be nil"
	ErrNilRandom           CoordinatorError = "random source cannot be nil"
	ErrNilCodeGenerator    CoordinatorError = "code generator cannot be nil"
)
