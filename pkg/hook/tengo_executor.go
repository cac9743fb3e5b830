// Package hook runs user supplied tengo scripts around package installs.
package hook

import (
	"context"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/glorpus-work/modsync/pkg/errors"
)

// Context is the data exposed to a hook script.
type Context struct {
	PackageAuthor  string
	PackageName    string
	PackageVersion string
	InstallPath    string
}

// vars returns the script globals in the order they are declared.
func (c Context) vars() [][2]string {
	return [][2]string{
		{"packageAuthor", c.PackageAuthor},
		{"packageName", c.PackageName},
		{"packageVersion", c.PackageVersion},
		{"installPath", c.InstallPath},
	}
}

// TengoExecutor runs one compiled tengo script. It is safe for concurrent use;
// every Execute works on its own clone of the compiled program.
type TengoExecutor struct {
	name     string
	compiled *tengo.Compiled
}

// LoadFile reads and compiles the script at path.
func LoadFile(path string) (*TengoExecutor, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Tag(errors.ErrHookLoad, err)
	}
	return NewTengoExecutor(path, src)
}

// NewTengoExecutor compiles src. name is only used in error messages.
func NewTengoExecutor(name string, src []byte) (*TengoExecutor, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap("fmt", "os", "strings", "text", "times"))
	for _, kv := range (Context{}).vars() {
		if err := script.Add(kv[0], kv[1]); err != nil {
			return nil, errors.Tag(errors.ErrHookLoad, err)
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, errors.Wrapf(errors.Tag(errors.ErrHookScript, err), "compile %s", name)
	}
	return &TengoExecutor{name: name, compiled: compiled}, nil
}

// Execute runs the script with hc bound to its globals. A script signals
// failure by assigning a non-empty string or an error value to err.
func (e *TengoExecutor) Execute(ctx context.Context, hc Context) error {
	run := e.compiled.Clone()
	for _, kv := range hc.vars() {
		if err := run.Set(kv[0], kv[1]); err != nil {
			return errors.Tag(errors.ErrHookExecution, err)
		}
	}

	if err := run.RunContext(ctx); err != nil {
		return errors.Wrapf(errors.Tag(errors.ErrHookExecution, err), "%s", e.name)
	}

	switch v := run.Get("err").Value().(type) {
	case error:
		return errors.Wrap(errors.ErrHookScript, v.Error())
	case string:
		if v != "" {
			return errors.Wrap(errors.ErrHookScript, v)
		}
	}
	return nil
}
