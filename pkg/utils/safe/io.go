package safe

import (
	"context"
	"io"

	"github.com/secmon-lab/riskscope/pkg/utils/logging"
)

// Close closes c and logs a failure under the given target name. A nil closer is ignored.
func Close(ctx context.Context, c io.Closer, target string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.From(ctx).Error("failed to close", "target", target, "error", err.Error())
	}
}

// Write writes data to w and logs a failure. Used for response bodies where
// the status line has already been sent and the error cannot be returned.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Error("failed to write response", "error", err.Error(), "size", len(data))
	}
}
