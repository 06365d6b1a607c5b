package translator

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/reportes/engine"
)

type mockTranslator struct {
	mock.Mock
}

func (m *mockTranslator) Translate(ctx context.Context, text, scope string) (*TranslateResult, error) {
	args := m.Called(ctx, text, scope)
	res, _ := args.Get(0).(*TranslateResult)
	return res, args.Error(1)
}

func TestChainPrefersPrimary(t *testing.T) {
	want := &TranslateResult{Source: SourceAI, Original: "ventas", Confidence: 0.9}
	primary := new(mockTranslator)
	primary.On("Translate", mock.Anything, "ventas", "reportes").Return(want, nil).Once()

	got, err := Chain(primary, newTestInterpreter()).Translate(context.Background(), "ventas", "reportes")
	require.NoError(t, err)
	assert.Same(t, want, got)
	primary.AssertExpectations(t)
}

func TestChainFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		result *TranslateResult
		err    error
		reason string
	}{
		{"unavailable", nil, ErrUnavailable, "IA no configurada"},
		{"malformed", nil, errors.Wrap(ErrMalformedResponse, "unknown filter key"), "respuesta de IA inválida"},
		{"timeout", nil, errors.Wrap(context.DeadlineExceeded, "gemini request"), "tiempo de espera de IA agotado"},
		{"other", nil, errors.New("connection refused"), "error al consultar la IA"},
		{"nil result", nil, nil, "respuesta de IA inválida"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := new(mockTranslator)
			primary.On("Translate", mock.Anything, "top 3 paquetes", "").Return(tt.result, tt.err)

			res, err := Chain(primary, newTestInterpreter()).Translate(context.Background(), "top 3 paquetes", "")
			require.NoError(t, err)

			assert.Equal(t, SourceLocal, res.Source)
			assert.Equal(t, tt.reason, res.FallbackReason)
			assert.Equal(t, 3, *res.Filters.Limit)
			assert.Equal(t, engine.ProductPackage, *res.Filters.ProductType)
			primary.AssertExpectations(t)
		})
	}
}

func TestChainWithoutPrimary(t *testing.T) {
	res, err := Chain(nil, newTestInterpreter()).Translate(context.Background(), "ventas en pdf", "")
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, res.Source)
	assert.Equal(t, "IA no configurada", res.FallbackReason)
	assert.Equal(t, engine.FormatPDF, res.Format())
}

func TestChainOverGeminiFailure(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	res, err := Chain(g, newTestInterpreter()).Translate(context.Background(), "clientes vip", "")
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, res.Source)
	assert.Equal(t, "error al consultar la IA", res.FallbackReason)
	assert.Equal(t, engine.TierVIP, *res.Filters.Tier)
}

func TestChainOverGeminiTimeout(t *testing.T) {
	g := newTestGemini(t, stalledHandler)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res, err := Chain(g, newTestInterpreter()).Translate(ctx, "clientes vip", "")
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, res.Source)
	assert.Equal(t, "tiempo de espera de IA agotado", res.FallbackReason)
	assert.Equal(t, engine.TierVIP, *res.Filters.Tier)
}
