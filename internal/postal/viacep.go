package postal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"

	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
)

const DefaultBaseURL = "https://viacep.com.br/ws"

type viaCEPResponse struct {
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       any    `json:"erro"`
}

// ViaCEPClient calls the ViaCEP API. Concurrent lookups of the same code
// share one request, and repeated upstream failures open the breaker.
type ViaCEPClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[domain.Address]
	group   singleflight.Group
	log     logrus.FieldLogger
}

func NewViaCEPClient(baseURL string, timeout time.Duration, log logrus.FieldLogger) *ViaCEPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c := &ViaCEPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		log:     log.WithField("component", "viacep"),
	}
	c.breaker = gobreaker.NewCircuitBreaker[domain.Address](gobreaker.Settings{
		Name:        "viacep",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A caller giving up says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.WithFields(logrus.Fields{"from": from.String(), "to": to.String()}).Warn("circuit breaker state changed")
		},
	})
	return c
}

func (c *ViaCEPClient) Lookup(ctx context.Context, code string) (domain.Address, error) {
	cep, err := NormalizeCode(code)
	if err != nil {
		return domain.Address{}, err
	}

	// The shared request is detached from the caller that started it; each
	// caller waits only on its own ctx.
	ch := c.group.DoChan(cep, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.breaker.Execute(func() (domain.Address, error) {
			return c.fetch(fetchCtx, cep)
		})
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return domain.Address{}, ctx.Err()
	case res = <-ch:
	}
	v, err := res.Val, res.Err
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return domain.Address{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err != nil {
		return domain.Address{}, err
	}
	return v.(domain.Address), nil
}

func (c *ViaCEPClient) fetch(ctx context.Context, cep string) (domain.Address, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", c.baseURL, cep), nil)
	if err != nil {
		return domain.Address{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Address{}, fmt.Errorf("viacep request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return domain.Address{}, fmt.Errorf("failed to read response: %w", err)
	}
	// ViaCEP answers 400 for malformed codes.
	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound {
		return domain.Address{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Address{}, fmt.Errorf("viacep returned status %d", resp.StatusCode)
	}

	var out viaCEPResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return domain.Address{}, fmt.Errorf("failed to parse viacep response: %w", err)
	}
	if out.Erro != nil && out.Erro != false {
		return domain.Address{}, ErrNotFound
	}

	return domain.Address{
		Street:       out.Logradouro,
		Neighborhood: out.Bairro,
		City:         out.Localidade,
		State:        out.UF,
		ZipCode:      cep,
	}, nil
}
