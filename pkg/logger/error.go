package logger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/suigate/mint-gateway/pkg/logger/slogx"
	"github.com/suigate/mint-gateway/pkg/stacktrace"
)

// middlewareError enriches records carrying an error attribute with the
// verbose error rendering, so wrapped causes survive into log output.
func middlewareError() middleware {
	return func(next handleFunc) handleFunc {
		return func(ctx context.Context, rec slog.Record) error {
			rec.Attrs(func(attr slog.Attr) bool {
				if attr.Key == slogx.ErrorKey || attr.Key == "err" {
					err := attr.Value.Any()
					if err, ok := err.(error); ok && err != nil {
						rec.AddAttrs(slog.String("error_verbose", fmt.Sprintf("%+v", err)))
						if st, ok := stacktrace.ParseErrStackTrace(err); ok {
							rec.AddAttrs(slog.Any("error_stacktrace", st.Strings()))
						}
					}
				}
				return false
			})

			return next(ctx, rec)
		}
	}
}
