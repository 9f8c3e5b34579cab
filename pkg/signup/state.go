package signup

// State is the form's submission state. It is one of Idle, Submitting, Succeeded or Failed.
type State interface {
	isState()
	String() string
}

// Idle is the state before a submit and after Reset
type Idle struct{}

// Submitting means the request is in flight
type Submitting struct{}

// Succeeded carries the confirmation shown to the visitor
type Succeeded struct {
	Message string
}

// Failed carries the error shown to the visitor
type Failed struct {
	Message string
}

func (Idle) isState()       {}
func (Submitting) isState() {}
func (Succeeded) isState()  {}
func (Failed) isState()     {}

func (Idle) String() string        { return "idle" }
func (Submitting) String() string  { return "submitting" }
func (s Succeeded) String() string { return "success: " + s.Message }
func (s Failed) String() string    { return "error: " + s.Message }
