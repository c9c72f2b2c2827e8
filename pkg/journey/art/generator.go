package art

import "context"

type Generator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}
