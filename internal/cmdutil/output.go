package cmdutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/computelabs/create-computelabs-app/internal/answers"
	oerrors "github.com/computelabs/create-computelabs-app/internal/errors"
	"github.com/computelabs/create-computelabs-app/internal/output"
	"github.com/computelabs/create-computelabs-app/internal/pipeline"
	"github.com/computelabs/create-computelabs-app/internal/pkgjson"
)

// PrintError prints err in a user-friendly format. Structured errors get a
// short summary line followed by their details as plain text on stderr;
// anything else falls back to the key-value log format.
func PrintError(msg string, err error) {
	keyvals := []interface{}{}
	if phase := pipeline.PhaseOf(err); phase != "" {
		keyvals = append(keyvals, "phase", phase)
	}

	var detail *oerrors.DetailError
	var invalid *answers.InvalidAnswersError
	var schemaErr *pkgjson.SchemaError

	switch {
	case errors.As(err, &detail):
		output.Error(fmt.Sprintf("%s: %s", msg, detail.Type), keyvals...)
		output.Details(strings.TrimPrefix(detail.Error(), "Error: "+detail.Type+"\n"))
	case errors.As(err, &invalid):
		output.Error(fmt.Sprintf("%s: invalid answers", msg), keyvals...)
		output.Details(bulletList(invalid.Problems))
	case errors.As(err, &schemaErr):
		output.Error(fmt.Sprintf("%s: %s does not match schema", msg, schemaErr.Document), keyvals...)
		issues := make([]string, 0, len(schemaErr.Issues))
		for _, i := range schemaErr.Issues {
			issues = append(issues, i.String())
		}
		output.Details(bulletList(issues))
	default:
		output.Error(msg, append(keyvals, "error", err)...)
	}

	var phaseErr *pipeline.PhaseError
	if errors.As(err, &phaseErr) {
		switch {
		case phaseErr.RollbackErr != nil:
			output.Warn("could not remove the partially created project; delete it manually",
				"error", phaseErr.RollbackErr)
		case phaseErr.RolledBack:
			output.Info("removed the partially created project")
		}
	}
	output.Debug("error classified", "category", oerrors.Category(err))
}

// ExitErrorFor prints err and wraps it so that main does not print it again.
// Cancellation is reported as an info line and yields nil.
func ExitErrorFor(msg string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, oerrors.ErrCancelled) {
		output.Info("cancelled, nothing was created")
		return nil
	}
	PrintError(msg, err)
	exitErr := oerrors.NewExitError(err, oerrors.ExitCodeFromError(err))
	exitErr.Printed = true
	return exitErr
}

func bulletList(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("- ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	return sb.String()
}
