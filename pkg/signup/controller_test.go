package signup

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_InvalidEmailSkipsNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	var seen []State
	c := NewController(srv.URL, WithObserver(func(s State) { seen = append(seen, s) }))

	for _, email := range []string{"", "   ", "not-an-email", "a@b", "a b@c.com"} {
		state := c.Submit(context.Background(), &Form{Email: email})
		assert.Equal(t, Failed{Message: MsgInvalidEmail}, state, email)
	}

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	for _, s := range seen {
		assert.IsType(t, Failed{}, s)
	}
}

func TestSubmit_Success(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &got))
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	var seen []State
	c := NewController(srv.URL, WithObserver(func(s State) { seen = append(seen, s) }))
	assert.Equal(t, Idle{}, c.State())

	form := &Form{Email: "  a@b.com ", WhatsApp: "  ", Telegram: " @me ", Note: ""}
	state := c.Submit(context.Background(), form)

	assert.Equal(t, Succeeded{Message: MsgSuccess}, state)
	assert.Equal(t, []State{Submitting{}, Succeeded{Message: MsgSuccess}}, seen)
	assert.Equal(t, Form{}, *form)

	// blank optional fields are omitted rather than sent as ""
	assert.Equal(t, map[string]any{"email": "a@b.com", "telegram": "@me"}, got)

	c.Reset()
	assert.Equal(t, Idle{}, c.State())
}

func TestSubmit_ServerError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"conflict", http.StatusConflict, `{"error":"Email already registered"}`, "Email already registered"},
		{"bad request", http.StatusBadRequest, `{"error":"Invalid email format"}`, "Invalid email format"},
		{"no message", http.StatusInternalServerError, `{}`, MsgFallback},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, MsgFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c := NewController(srv.URL)
			form := &Form{Email: "a@b.com", Note: "keep me"}
			state := c.Submit(context.Background(), form)

			assert.Equal(t, Failed{Message: tt.want}, state)
			assert.Equal(t, state, c.State())
			// the form is only cleared on success
			assert.Equal(t, "keep me", form.Note)
		})
	}
}

func TestSubmit_NonJSONSuccessReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, `<html>maintenance</html>`)
	}))
	defer srv.Close()

	c := NewController(srv.URL)
	form := &Form{Email: "a@b.com"}
	state := c.Submit(context.Background(), form)

	assert.Equal(t, Failed{Message: MsgFallback}, state)
	assert.Equal(t, "a@b.com", form.Email)
}

func TestSubmit_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	c := NewController(endpoint)
	state := c.Submit(context.Background(), &Form{Email: "a@b.com"})

	assert.Equal(t, Failed{Message: MsgFallback}, state)
}

func TestSubmit_OneRequestPerSubmit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) > 1 {
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, `{"error":"Email already registered"}`)
			return
		}
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	c := NewController(srv.URL, WithHTTPClient(srv.Client()))

	const submits = 5
	results := make([]State, submits)
	var wg sync.WaitGroup
	for i := 0; i < submits; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Submit(context.Background(), &Form{Email: "a@b.com"})
		}(i)
	}
	wg.Wait()

	require.Equal(t, int32(submits), atomic.LoadInt32(&calls))
	var ok int
	for _, s := range results {
		if _, isOK := s.(Succeeded); isOK {
			ok++
		} else {
			assert.Equal(t, Failed{Message: "Email already registered"}, s)
		}
	}
	assert.Equal(t, 1, ok)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle{}.String())
	assert.Equal(t, "submitting", Submitting{}.String())
	assert.Equal(t, "success: done", Succeeded{Message: "done"}.String())
	assert.Equal(t, "error: nope", Failed{Message: "nope"}.String())
}
