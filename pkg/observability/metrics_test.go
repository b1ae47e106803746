package observability_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/checktree/pkg/domain"
	"github.com/aretw0/checktree/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	h := m.Hooks()
	ctx := context.Background()

	h.OnCheckChanged(ctx, &domain.ChoiceEvent{Checked: true})
	h.OnCheckChanged(ctx, &domain.ChoiceEvent{Checked: true})
	h.OnCheckChanged(ctx, &domain.ChoiceEvent{Checked: false})
	h.OnDispatch(ctx, &domain.InputEvent{Kind: domain.EventMotion})
	h.OnFocusFromKeyboard(ctx, &domain.FocusEvent{})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Choices.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Choices.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Events.WithLabelValues("motion")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Focus))
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetrics()
	m.Hooks().OnDispatch(context.Background(), &domain.InputEvent{Kind: domain.EventLeftDown})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `checktree_events_total{kind="left_down"} 1`)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	observability.LoggingHooks(logger).OnCheckChanged(context.Background(), &domain.ChoiceEvent{Node: "n3", Checked: true})
	assert.Contains(t, buf.String(), "check_changed")
	assert.Contains(t, buf.String(), "node_id=n3")
}
