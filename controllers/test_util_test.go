package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skillshare-api/store"
	"skillshare-api/utils"
)

const testTimeout = time.Second

type sentEmail struct {
	to, subject string
}

type recordingSender struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (s *recordingSender) Send(to, subject, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentEmail{to, subject})
	return nil
}

func (s *recordingSender) recipients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sent))
	for _, e := range s.sent {
		out = append(out, e.to)
	}
	return out
}

type fakeProvider struct {
	amount   int64
	currency string
	err      error
}

func (p *fakeProvider) CreateCardIntent(_ context.Context, amount int64, currency string) (string, error) {
	p.amount, p.currency = amount, currency
	if p.err != nil {
		return "", p.err
	}
	return "pi_secret_123", nil
}

type brokenPinger struct{}

func (brokenPinger) Ping(context.Context) error { return errors.New("no route to host") }

func setup(t *testing.T) (*store.Store, *utils.EmailService, *recordingSender) {
	t.Helper()
	sender := &recordingSender{}
	return store.NewMemory(), utils.NewEmailService(sender, zap.NewNop()), sender
}

// call runs h with optional JSON body and route variables
func call(h http.HandlerFunc, method string, body interface{}, vars map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, "/", &buf)
	req.Header.Set("Content-Type", "application/json")
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}
