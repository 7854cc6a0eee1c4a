package cmd

import (
	"context"
	"io"
	"os"
)

type (
	streamsKey     struct{}
	errorFormatKey struct{}
)

// streams are the readers and writers a command uses in place of the process
// standard streams. Nil fields fall back to os.Stdin, os.Stdout and os.Stderr.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func withIO(ctx context.Context, in io.Reader, out, errOut io.Writer) context.Context {
	return context.WithValue(ctx, streamsKey{}, streams{in: in, out: out, err: errOut})
}

func streamsFromContext(ctx context.Context) streams {
	if ctx == nil {
		return streams{}
	}
	s, _ := ctx.Value(streamsKey{}).(streams)
	return s
}

func stdinFromContext(ctx context.Context) io.Reader {
	if in := streamsFromContext(ctx).in; in != nil {
		return in
	}
	return os.Stdin
}

func stdoutFromContext(ctx context.Context) io.Writer {
	if out := streamsFromContext(ctx).out; out != nil {
		return out
	}
	return os.Stdout
}

func stderrFromContext(ctx context.Context) io.Writer {
	if errOut := streamsFromContext(ctx).err; errOut != nil {
		return errOut
	}
	return os.Stderr
}

// WithErrorFormat records how printCommandError renders a failed command
// ("text", "json" or "yaml").
func WithErrorFormat(ctx context.Context, format string) context.Context {
	return context.WithValue(ctx, errorFormatKey{}, format)
}

// ErrorFormatFromContext returns the recorded error format, or "" when unset.
func ErrorFormatFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	format, _ := ctx.Value(errorFormatKey{}).(string)
	return format
}
