package signup

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"landing-waitlist/pkg/models"
)

// Messages shown to the visitor
const (
	MsgInvalidEmail = "Please enter a valid email."
	MsgSuccess      = "You're on the waitlist! We'll be in touch soon."
	MsgFallback     = "Something went wrong. Please try again."
)

// Form holds the raw field values of the signup form
type Form struct {
	Email    string
	WhatsApp string
	Telegram string
	Note     string
}

// Clear empties every field
func (f *Form) Clear() {
	*f = Form{}
}

// Controller runs form submissions against the join endpoint
type Controller struct {
	endpoint   string
	httpClient *http.Client
	observer   func(State)

	mu    sync.Mutex
	state State
}

// Option configures a Controller
type Option func(*Controller)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Controller) {
		c.httpClient = client
	}
}

// WithObserver registers fn to receive every state transition
func WithObserver(fn func(State)) Option {
	return func(c *Controller) {
		c.observer = fn
	}
}

// NewController creates a controller posting to endpoint, e.g. https://example.com/api/join
func NewController(endpoint string, opts ...Option) *Controller {
	c := &Controller{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
		state:      Idle{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reset returns to Idle, called on the next interaction after a result
func (c *Controller) Reset() {
	c.setState(Idle{})
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	if c.observer != nil {
		c.observer(s)
	}
}

// Submit runs one submission cycle and returns the resulting state.
// Form is cleared on success. Invalid emails never reach the network.
func (c *Controller) Submit(ctx context.Context, form *Form) State {
	req := models.JoinRequest{
		Email:    strings.TrimSpace(form.Email),
		WhatsApp: strings.TrimSpace(form.WhatsApp),
		Telegram: strings.TrimSpace(form.Telegram),
		Note:     strings.TrimSpace(form.Note),
	}
	if req.Email == "" || !models.ValidEmail(req.Email) {
		return c.finish(Failed{Message: MsgInvalidEmail})
	}

	c.setState(Submitting{})

	result := c.post(ctx, req)
	if _, ok := result.(Succeeded); ok {
		form.Clear()
	}
	return c.finish(result)
}

func (c *Controller) finish(s State) State {
	c.setState(s)
	return s
}

func (c *Controller) post(ctx context.Context, body models.JoinRequest) State {
	payload, err := json.Marshal(body)
	if err != nil {
		return Failed{Message: MsgFallback}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		log.Debug().Err(err).Str("endpoint", c.endpoint).Msg("Error creating join request")
		return Failed{Message: MsgFallback}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("endpoint", c.endpoint).Msg("Join request failed")
		return Failed{Message: MsgFallback}
	}
	defer resp.Body.Close()

	var reply struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	decodeErr := json.NewDecoder(resp.Body).Decode(&reply)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if reply.Error != "" {
			return Failed{Message: reply.Error}
		}
		return Failed{Message: MsgFallback}
	}
	if decodeErr != nil {
		log.Debug().Err(decodeErr).Int("status", resp.StatusCode).Msg("Join reply is not JSON")
		return Failed{Message: MsgFallback}
	}
	return Succeeded{Message: MsgSuccess}
}
