package flatten

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/structflat/structflat/pkg/structflat"
)

// Options control the file-level flatten action.
//
// InFile   – file holding the declaration to flatten
// OutFile  – destination file, "-" or empty for stdout
// ForcePub – upgrade the outermost declaration to pub
type Options struct {
	InFile   string
	OutFile  string
	ForcePub bool
}

// Generate reads the input declaration, runs the engine, and writes the
// flattened output.
func Generate(o *Options) {
	data, err := os.ReadFile(o.InFile)
	if err != nil {
		panic(err)
	}
	opts := []structflat.Option{structflat.WithFilename(o.InFile)}
	if o.ForcePub {
		opts = append(opts, structflat.WithForcePub())
	}
	out, err := structflat.Flatten(string(data), opts...)
	if err != nil {
		panic(err)
	}
	out += "\n"
	if o.OutFile == "" || o.OutFile == "-" {
		_, _ = os.Stdout.WriteString(out)
		return
	}
	_ = os.MkdirAll(filepath.Dir(o.OutFile), 0755)
	if err = os.WriteFile(o.OutFile, []byte(out), 0644); err != nil {
		panic(err)
	}
	slog.With("in", o.InFile, "out", o.OutFile).Info("flattened declarations written")
}
