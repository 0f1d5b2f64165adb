package postal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
	"github.com/Rogerio-17/cardapio-digital-web/internal/logger"
)

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"01001-000", "01001000", false},
		{" 01001000 ", "01001000", false},
		{"0100100", "", true},
		{"010010001", "", true},
		{"abc", "", true},
		{"٠١٠٠١٠٠٠", "", true},
		{"01001-٠٠٠", "", true},
		{"０１００１０００", "", true},
		{"0100१1000", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeCode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "CEP deve ter 8 dígitos", Message(ErrInvalidCode))
	assert.Equal(t, "CEP não encontrado", Message(fmt.Errorf("wrap: %w", ErrNotFound)))
	assert.Equal(t, "Erro ao buscar CEP", Message(ErrUnavailable))
}

func viaCEPServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/01001000/json/":
			fmt.Fprint(w, `{"cep":"01001-000","logradouro":"Praça da Sé","bairro":"Sé","localidade":"São Paulo","uf":"SP"}`)
		case "/99999999/json/":
			fmt.Fprint(w, `{"erro": true}`)
		case "/88888888/json/":
			fmt.Fprint(w, `{"erro": "true"}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestViaCEPClient_Lookup(t *testing.T) {
	var hits int32
	srv := viaCEPServer(t, &hits)
	c := NewViaCEPClient(srv.URL, time.Second, logger.Discard())

	addr, err := c.Lookup(context.Background(), "01001-000")
	require.NoError(t, err)
	assert.Equal(t, "Praça da Sé", addr.Street)
	assert.Equal(t, "Sé", addr.Neighborhood)
	assert.Equal(t, "São Paulo", addr.City)
	assert.Equal(t, "SP", addr.State)
	assert.Equal(t, "01001000", addr.ZipCode)
	assert.Empty(t, addr.Number)
}

func TestViaCEPClient_NotFound(t *testing.T) {
	var hits int32
	srv := viaCEPServer(t, &hits)
	c := NewViaCEPClient(srv.URL, time.Second, logger.Discard())

	_, err := c.Lookup(context.Background(), "99999-999")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Lookup(context.Background(), "88888888")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestViaCEPClient_InvalidCodeSkipsNetwork(t *testing.T) {
	var hits int32
	srv := viaCEPServer(t, &hits)
	c := NewViaCEPClient(srv.URL, time.Second, logger.Discard())

	_, err := c.Lookup(context.Background(), "123")
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestViaCEPClient_BreakerOpens(t *testing.T) {
	var hits int32
	srv := viaCEPServer(t, &hits)
	c := NewViaCEPClient(srv.URL, time.Second, logger.Discard())

	for i := 0; i < 5; i++ {
		_, err := c.Lookup(context.Background(), "11111111")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnavailable)
	}
	_, err := c.Lookup(context.Background(), "01001000")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(5), atomic.LoadInt32(&hits))
}

func TestViaCEPClient_NotFoundDoesNotTrip(t *testing.T) {
	var hits int32
	srv := viaCEPServer(t, &hits)
	c := NewViaCEPClient(srv.URL, time.Second, logger.Discard())

	for i := 0; i < 10; i++ {
		_, err := c.Lookup(context.Background(), "99999999")
		require.ErrorIs(t, err, ErrNotFound)
	}
	_, err := c.Lookup(context.Background(), "01001000")
	assert.NoError(t, err)
}

func TestSequencer_LatestWins(t *testing.T) {
	var s Sequencer
	var applied string

	first := s.Begin()
	second := s.Begin()

	assert.True(t, s.Apply(second, func() { applied = "second" }))
	assert.False(t, s.Apply(first, func() { applied = "first" }))
	assert.Equal(t, "second", applied)
}

func TestSequencer_Concurrent(t *testing.T) {
	var s Sequencer
	var mu sync.Mutex
	var applied []uint64

	seqs := make([]uint64, 20)
	for i := range seqs {
		seqs[i] = s.Begin()
	}

	var wg sync.WaitGroup
	for _, seq := range seqs {
		wg.Add(1)
		go func(seq uint64) {
			defer wg.Done()
			s.Apply(seq, func() {
				mu.Lock()
				applied = append(applied, seq)
				mu.Unlock()
			})
		}(seq)
	}
	wg.Wait()

	assert.Equal(t, []uint64{20}, applied)
}

func TestSequencers_PerKey(t *testing.T) {
	s := NewSequencers()

	a1 := s.Begin("session-a")
	b1 := s.Begin("session-b")
	a2 := s.Begin("session-a")

	assert.True(t, s.Finish("session-b", b1))
	assert.False(t, s.Finish("session-a", a1))
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Finish("session-a", a2))
	assert.Equal(t, 0, s.Len())

	assert.False(t, s.Finish("session-a", a2))
	assert.Equal(t, uint64(1), s.Begin("session-a"))
}

func gatedViaCEPServer(t *testing.T, arrived chan<- string, release <-chan struct{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		arrived <- r.URL.Path
		<-release
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"logradouro":"Avenida Paulista","bairro":"Bela Vista","localidade":"São Paulo","uf":"SP"}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestViaCEPClient_CancelledCallerDoesNotFailSharedLookup(t *testing.T) {
	arrived := make(chan string, 4)
	release := make(chan struct{})
	c := NewViaCEPClient(gatedViaCEPServer(t, arrived, release).URL, 5*time.Second, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Lookup(ctx, "01310100")
		firstErr <- err
	}()
	require.Equal(t, "/01310100/json/", <-arrived)

	type result struct {
		addr domain.Address
		err  error
	}
	second := make(chan result, 1)
	go func() {
		addr, err := c.Lookup(context.Background(), "01310100")
		second <- result{addr, err}
	}()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, "Avenida Paulista", got.addr.Street)
}

func TestViaCEPClient_CancellationsDoNotOpenBreaker(t *testing.T) {
	arrived := make(chan string, 16)
	release := make(chan struct{})
	c := NewViaCEPClient(gatedViaCEPServer(t, arrived, release).URL, 5*time.Second, logger.Discard())

	for i := 0; i < 8; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func(code string) {
			_, err := c.Lookup(ctx, code)
			done <- err
		}(fmt.Sprintf("0131010%d", i))
		<-arrived
		cancel()
		require.ErrorIs(t, <-done, context.Canceled)
	}
	close(release)

	addr, err := c.Lookup(context.Background(), "01310100")
	require.NoError(t, err)
	assert.Equal(t, "Avenida Paulista", addr.Street)
}
