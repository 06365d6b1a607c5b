package translator

import (
	"context"
	"net"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// chain tries the AI interpreter first and falls back to the local one.
type chain struct {
	primary Translator
	local   *Interpreter
}

// Chain returns a Translator that never fails for lack of AI: when primary
// is nil or returns any error the local interpreter answers, and the result
// carries the reason in FallbackReason.
func Chain(primary Translator, local *Interpreter) Translator {
	return &chain{primary: primary, local: local}
}

func (c *chain) Translate(ctx context.Context, text, scope string) (*TranslateResult, error) {
	reason := fallbackReason(ErrUnavailable)
	if c.primary != nil {
		result, err := c.primary.Translate(ctx, text, scope)
		if err == nil && result != nil {
			return result, nil
		}
		if err == nil {
			err = errors.Wrap(ErrMalformedResponse, "empty result")
		}
		zerolog.Ctx(ctx).Warn().Err(err).Msg("ai interpreter failed, using local interpreter")
		reason = fallbackReason(err)
	}

	result, err := c.local.Translate(ctx, text, scope)
	if err != nil {
		return nil, err
	}
	result.FallbackReason = reason
	return result, nil
}

// fallbackReason is the short, key-free text exposed to API clients.
func fallbackReason(err error) string {
	switch {
	case errors.Is(err, ErrUnavailable):
		return "IA no configurada"
	case errors.Is(err, ErrMalformedResponse):
		return "respuesta de IA inválida"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled), isTimeout(err):
		return "tiempo de espera de IA agotado"
	}
	return "error al consultar la IA"
}

// isTimeout catches http.Client.Timeout, which is not always a context error.
func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
