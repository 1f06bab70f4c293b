//go:build !integration

package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"spodown-client/internal/infra/logging"
)

func TestWith(t *testing.T) {
	t.Run("should attach every id the context carries", func(t *testing.T) {
		var buf bytes.Buffer
		base := zerolog.New(&buf)

		ctx := logging.WithTraceID(context.Background(), "t-1")
		ctx = logging.WithFlowID(ctx, "f-1")
		ctx = logging.WithSessID(ctx, "s-1")

		logging.With(ctx, &base).Info().Msg("hello")

		out := buf.String()
		for _, want := range []string{`"trace_id":"t-1"`, `"flow_id":"f-1"`, `"session_id":"s-1"`} {
			if !strings.Contains(out, want) {
				t.Errorf("missing %s in %s", want, out)
			}
		}
	})

	t.Run("should pass a bare context through unchanged", func(t *testing.T) {
		var buf bytes.Buffer
		base := zerolog.New(&buf)

		logging.With(context.Background(), &base).Info().Msg("hello")

		out := buf.String()
		if strings.Contains(out, "trace_id") || strings.Contains(out, "flow_id") {
			t.Errorf("unexpected ids: %s", out)
		}
	})
}

func TestTraceDuration(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf).Level(zerolog.TraceLevel)

	done := logging.TraceDuration(&base, "DownloadUC.Start")
	done()

	out := buf.String()
	if strings.Count(out, `"DownloadUC.Start"`) != 2 {
		t.Errorf("expected start and finish lines, got: %s", out)
	}
	if !strings.Contains(out, `"duration"`) {
		t.Errorf("missing duration field: %s", out)
	}
}
