package ports

import "context"

type Clipboard interface {
	Copy(ctx context.Context, text string) error
}
