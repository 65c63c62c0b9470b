package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/vportela/bet-wallet-platform-poc/pkg/contracts/events"
)

// fakeSource entrega a fila e cancela o contexto quando esvazia,
// encerrando o Run de forma determinística.
type fakeSource struct {
	msgs   []kafka.Message
	cancel context.CancelFunc
}

func (f *fakeSource) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(f.msgs) == 0 {
		f.cancel()
		return kafka.Message{}, ctx.Err()
	}
	m := f.msgs[0]
	f.msgs = f.msgs[1:]
	return m, nil
}

type fakeSettler struct {
	calls    []string // "betID/outcome"
	failures int      // falhas antes de passar
	err      error    // erro fixo, se definido
}

func (f *fakeSettler) Settle(_ context.Context, betID, outcome string) error {
	f.calls = append(f.calls, betID+"/"+outcome)
	if f.err != nil {
		return f.err
	}
	if f.failures > 0 {
		f.failures--
		return errors.New("ledger unavailable")
	}
	return nil
}

type fakeDLQ struct {
	msgs []kafka.Message
}

func (f *fakeDLQ) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

type fixedResolver struct{ outcome string }

func (r fixedResolver) Resolve(events.BetPlaced) string { return r.outcome }

func betMessage(t *testing.T, betID string, placedAt time.Time) kafka.Message {
	t.Helper()
	b, err := json.Marshal(events.BetPlaced{
		BetID:       betID,
		AccountID:   "acc1",
		StakeCents:  10_000,
		TotalOdds:   2.0,
		PayoutCents: 20_000,
		PlacedAtMs:  placedAt.UnixMilli(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return kafka.Message{Key: []byte(betID), Value: b}
}

func runWorker(t *testing.T, w *Worker, src *fakeSource) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	src.cancel = cancel
	w.Reader = src
	if err := w.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}
}

func TestWorkerWaitsRemainingDelay(t *testing.T) {
	now := time.Now()
	settler := &fakeSettler{}
	var slept time.Duration

	w := &Worker{
		Log:      zap.NewNop(),
		Settler:  settler,
		Resolver: fixedResolver{outcome: "WON"},
		Delay:    5 * time.Second,
		Now:      func() time.Time { return now },
		Sleep: func(_ context.Context, d time.Duration) error {
			slept = d
			return nil
		},
	}
	runWorker(t, w, &fakeSource{msgs: []kafka.Message{
		betMessage(t, "b1", now.Add(-2*time.Second)),
	}})

	want := 3 * time.Second
	if slept < want-50*time.Millisecond || slept > want+50*time.Millisecond {
		t.Errorf("slept %v, want ~%v", slept, want)
	}
	if len(settler.calls) != 1 || settler.calls[0] != "b1/WON" {
		t.Errorf("settler calls = %v", settler.calls)
	}
}

func TestWorkerPastDueSettlesImmediately(t *testing.T) {
	now := time.Now()
	settler := &fakeSettler{}
	sleptAny := false

	w := &Worker{
		Log:      zap.NewNop(),
		Settler:  settler,
		Resolver: fixedResolver{outcome: "LOST"},
		Delay:    5 * time.Second,
		Now:      func() time.Time { return now },
		Sleep: func(context.Context, time.Duration) error {
			sleptAny = true
			return nil
		},
	}
	runWorker(t, w, &fakeSource{msgs: []kafka.Message{
		betMessage(t, "b1", now.Add(-time.Minute)),
	}})

	if sleptAny {
		t.Error("worker slept for a past-due bet")
	}
	if len(settler.calls) != 1 || settler.calls[0] != "b1/LOST" {
		t.Errorf("settler calls = %v", settler.calls)
	}
}

func TestAlreadySettledIsSuccess(t *testing.T) {
	settler := &fakeSettler{err: ErrAlreadySettled}
	dlq := &fakeDLQ{}

	w := &Worker{
		Log:      zap.NewNop(),
		Settler:  settler,
		Resolver: fixedResolver{outcome: "WON"},
		DLQ:      dlq,
		Now:      time.Now,
		Sleep:    func(context.Context, time.Duration) error { return nil },
	}
	runWorker(t, w, &fakeSource{msgs: []kafka.Message{
		betMessage(t, "b1", time.Now().Add(-time.Minute)),
	}})

	if len(settler.calls) != 1 {
		t.Errorf("settler calls = %d, want 1 (no retry on already-settled)", len(settler.calls))
	}
	if len(dlq.msgs) != 0 {
		t.Errorf("dlq has %d messages, want 0", len(dlq.msgs))
	}
}

func TestRetryThenDLQ(t *testing.T) {
	settler := &fakeSettler{err: errors.New("ledger down")}
	dlq := &fakeDLQ{}

	w := &Worker{
		Log:      zap.NewNop(),
		Settler:  settler,
		Resolver: fixedResolver{outcome: "WON"},
		DLQ:      dlq,
		Retries:  2,
		Now:      time.Now,
		Sleep:    func(context.Context, time.Duration) error { return nil },
	}
	runWorker(t, w, &fakeSource{msgs: []kafka.Message{
		betMessage(t, "b1", time.Now().Add(-time.Minute)),
	}})

	if len(settler.calls) != 2 {
		t.Errorf("settler calls = %d, want 2", len(settler.calls))
	}
	if len(dlq.msgs) != 1 {
		t.Fatalf("dlq has %d messages, want 1", len(dlq.msgs))
	}
}

func TestRetrySucceedsOnSecondAttempt(t *testing.T) {
	settler := &fakeSettler{failures: 1}
	dlq := &fakeDLQ{}

	w := &Worker{
		Log:      zap.NewNop(),
		Settler:  settler,
		Resolver: fixedResolver{outcome: "LOST"},
		DLQ:      dlq,
		Now:      time.Now,
		Sleep:    func(context.Context, time.Duration) error { return nil },
	}
	runWorker(t, w, &fakeSource{msgs: []kafka.Message{
		betMessage(t, "b1", time.Now().Add(-time.Minute)),
	}})

	if len(settler.calls) != 2 {
		t.Errorf("settler calls = %d, want 2", len(settler.calls))
	}
	if len(dlq.msgs) != 0 {
		t.Errorf("dlq has %d messages, want 0", len(dlq.msgs))
	}
}

func TestBadMessageGoesToDLQ(t *testing.T) {
	settler := &fakeSettler{}
	dlq := &fakeDLQ{}

	w := &Worker{
		Log:      zap.NewNop(),
		Settler:  settler,
		Resolver: fixedResolver{outcome: "WON"},
		DLQ:      dlq,
		Now:      time.Now,
		Sleep:    func(context.Context, time.Duration) error { return nil },
	}
	runWorker(t, w, &fakeSource{msgs: []kafka.Message{
		{Value: []byte("not json")},
	}})

	if len(settler.calls) != 0 {
		t.Errorf("settler called for invalid message: %v", settler.calls)
	}
	if len(dlq.msgs) != 1 {
		t.Errorf("dlq has %d messages, want 1", len(dlq.msgs))
	}
}

func TestHTTPSettlerMapsConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/internal/bets/b1/settle" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	s := NewHTTPSettler(srv.URL)
	err := s.Settle(context.Background(), "b1", "WON")
	if !errors.Is(err, ErrAlreadySettled) {
		t.Fatalf("err = %v, want ErrAlreadySettled", err)
	}
}

func TestHTTPSettlerOK(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewHTTPSettler(srv.URL)
	if err := s.Settle(context.Background(), "b1", "LOST"); err != nil {
		t.Fatal(err)
	}
	if gotBody["outcome"] != "LOST" {
		t.Errorf("body = %v", gotBody)
	}
}
