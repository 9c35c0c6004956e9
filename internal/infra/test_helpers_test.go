package infra

import "context"

// recordedCall captures one command invocation on the fake runner.
type recordedCall struct {
	name string
	args []string
}

// fakeRunner implements CommandRunner for testing. outputFn, when set,
// scripts per-command replies; otherwise runErr is returned everywhere.
type fakeRunner struct {
	calls    []recordedCall
	runErr   error
	outputFn func(name string, args ...string) ([]byte, error)
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.calls = append(f.calls, recordedCall{name: name, args: args})
	return f.runErr
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, recordedCall{name: name, args: args})
	if f.outputFn != nil {
		return f.outputFn(name, args...)
	}
	return nil, f.runErr
}

// testKey returns a deterministic 32-byte key for store tests.
func testKey() []byte {
	key := make([]byte, keySize)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}
