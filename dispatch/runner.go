package dispatch

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/hepworks/histodriver/errors"
)

// Invoker runs one job to completion and reports whether it succeeded.
type Invoker interface {
	Invoke(ctx context.Context, job Job) error
}

// ExecInvoker launches the external analyzer binary, blocking until the
// process terminates. The analyzer's stdout and stderr are passed through
// to the driver's own streams.
type ExecInvoker struct {
	argv   []string
	logger *zap.SugaredLogger
}

// NewExecInvoker parses command shell-style into the analyzer argv.
// Wrapper prefixes work: "valgrind --leak-check=no ./RunSimpleAnalyzer".
func NewExecInvoker(command string, logger *zap.SugaredLogger) (*ExecInvoker, error) {
	argv, err := shellquote.Split(command)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse analyzer command %q", command)
	}
	if len(argv) == 0 {
		return nil, errors.Newf("analyzer command %q is empty", command)
	}
	return &ExecInvoker{argv: argv, logger: logger}, nil
}

// Command returns the full argument vector for a job, program first.
func (i *ExecInvoker) Command(job Job) []string {
	cmd := make([]string, 0, len(i.argv)+len(job.Args))
	cmd = append(cmd, i.argv...)
	cmd = append(cmd, job.Args...)
	return cmd
}

// Invoke runs the analyzer for one job. Cancelling ctx kills the process.
func (i *ExecInvoker) Invoke(ctx context.Context, job Job) error {
	argv := i.Command(job)

	i.logger.Infow("running command",
		"sample", job.Sample,
		"command", strings.Join(argv, " "))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "analyzer failed for sample %s", job.Sample)
	}
	return nil
}

// exitCode extracts the process exit code from an Invoke error. Returns 0
// for nil, -1 when the process never ran (launch failure, cancellation).
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
