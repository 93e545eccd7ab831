// Package webblocks provides the HTTP blocks under the "web" app.
package webblocks

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/zclconf/go-cty/cty"

	"github.com/blockflow/blockflow/internal/block"
	"github.com/blockflow/blockflow/internal/registry"
	"github.com/blockflow/blockflow/internal/value"
)

// App is the adapter name web blocks request from the execution context.
const App = "web"

// Doer issues HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxBodyBytes caps response bodies so a misbehaving server cannot blow up
// the value store.
const maxBodyBytes = 8 << 20

// Module registers the web blocks.
type Module struct{}

// New returns the web provider.
func New() *Module { return &Module{} }

// Register wires the get block into the registry.
func (m *Module) Register(r *registry.Registry) error {
	spec := &block.Spec{
		ID:     "web:get",
		Inputs: []block.Port{{Name: "url", Type: cty.String, Required: true}},
		Outputs: []block.Port{
			{Name: "status", Type: cty.Number},
			{Name: "body", Type: value.Bytes},
		},
		Effectful: true,
	}
	get := func(ctx context.Context, ec *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
		a, err := ec.Adapter(App)
		if err != nil {
			return nil, err
		}
		client, ok := a.(Doer)
		if !ok {
			return nil, fmt.Errorf("adapter %q does not implement the http client", App)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, in["url"].AsString(), nil)
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("reading response body: %w", err)
		}
		return block.Outputs{
			"status": cty.NumberIntVal(int64(resp.StatusCode)),
			"body":   value.BytesVal(body),
		}, nil
	}
	return r.Register(spec, block.NewFactory(spec, get))
}
